package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/gitingest-agent/internal/utils"
)

const (
	keyExecutable      = "gitingest.executable"
	keyFullTimeout     = "gitingest.full_timeout"
	keyFilteredTimeout = "gitingest.filtered_timeout"
	keyReportTimeout   = "gitingest.report_timeout"
	keyTreeTimeout     = "gitingest.tree_timeout"
	keyOutputDirectory = "storage.output_dir"
	keyTokenModel      = "tokens.model"
	keyGitHubToken     = "github.token"
	keyOutputCopy      = "output.copy"

	// GitHubTokenEnvironmentVariable is the conventional token variable honored for github.token.
	GitHubTokenEnvironmentVariable = "GITHUB_TOKEN"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds every configurable value of the CLI.
type ApplicationConfiguration struct {
	GitIngest GitIngestConfiguration `mapstructure:"gitingest"`
	Storage   StorageConfiguration   `mapstructure:"storage"`
	Tokens    TokenConfiguration     `mapstructure:"tokens"`
	GitHub    GitHubConfiguration    `mapstructure:"github"`
	Output    OutputConfiguration    `mapstructure:"output"`
}

// GitIngestConfiguration configures the wrapped extraction tool.
type GitIngestConfiguration struct {
	Executable      string        `mapstructure:"executable"`
	FullTimeout     time.Duration `mapstructure:"full_timeout"`
	FilteredTimeout time.Duration `mapstructure:"filtered_timeout"`
	ReportTimeout   time.Duration `mapstructure:"report_timeout"`
	TreeTimeout     time.Duration `mapstructure:"tree_timeout"`
}

// StorageConfiguration selects where artifacts are written.
type StorageConfiguration struct {
	// OutputDirectory bypasses project detection when set.
	OutputDirectory string `mapstructure:"output_dir"`
}

// TokenConfiguration controls the optional model-accurate token count.
type TokenConfiguration struct {
	Model string `mapstructure:"model"`
}

// GitHubConfiguration configures the repository metadata lookup.
type GitHubConfiguration struct {
	Token string `mapstructure:"token"`
}

// OutputConfiguration holds console defaults.
type OutputConfiguration struct {
	// Copy enables --copy by default for commands that support it.
	Copy *bool `mapstructure:"copy"`
}

// LoadApplicationConfiguration loads configuration from global and local files,
// then applies environment overrides.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	environmentConfig, environmentErr := loadConfigurationFromEnvironment()
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	return merged.Merge(environmentConfig), nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// loadConfigurationFromEnvironment reads GITINGEST_AGENT_* variables,
// e.g. GITINGEST_AGENT_STORAGE_OUTPUT_DIR for storage.output_dir.
func loadConfigurationFromEnvironment() (ApplicationConfiguration, error) {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	reader.AutomaticEnv()
	if bindErr := reader.BindEnv(keyGitHubToken, utils.EnvironmentPrefix+"_GITHUB_TOKEN", GitHubTokenEnvironmentVariable); bindErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("bind %s: %w", keyGitHubToken, bindErr)
	}

	var config ApplicationConfiguration
	config.GitIngest.Executable = reader.GetString(keyExecutable)
	config.Storage.OutputDirectory = reader.GetString(keyOutputDirectory)
	config.Tokens.Model = reader.GetString(keyTokenModel)
	config.GitHub.Token = reader.GetString(keyGitHubToken)
	if reader.IsSet(keyOutputCopy) {
		copyEnabled := reader.GetBool(keyOutputCopy)
		config.Output.Copy = &copyEnabled
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{key: keyFullTimeout, target: &config.GitIngest.FullTimeout},
		{key: keyFilteredTimeout, target: &config.GitIngest.FilteredTimeout},
		{key: keyReportTimeout, target: &config.GitIngest.ReportTimeout},
		{key: keyTreeTimeout, target: &config.GitIngest.TreeTimeout},
	}
	for _, duration := range durations {
		rawValue := strings.TrimSpace(reader.GetString(duration.key))
		if rawValue == "" {
			continue
		}
		parsed, parseErr := time.ParseDuration(rawValue)
		if parseErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("parse %s from environment: %w", duration.key, parseErr)
		}
		*duration.target = parsed
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.GitIngest = result.GitIngest.merge(override.GitIngest)
	if override.Storage.OutputDirectory != "" {
		result.Storage.OutputDirectory = override.Storage.OutputDirectory
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	if override.GitHub.Token != "" {
		result.GitHub.Token = override.GitHub.Token
	}
	if override.Output.Copy != nil {
		result.Output.Copy = cloneBool(override.Output.Copy)
	}
	return result
}

func (config GitIngestConfiguration) merge(override GitIngestConfiguration) GitIngestConfiguration {
	result := config
	if override.Executable != "" {
		result.Executable = override.Executable
	}
	if override.FullTimeout > 0 {
		result.FullTimeout = override.FullTimeout
	}
	if override.FilteredTimeout > 0 {
		result.FilteredTimeout = override.FilteredTimeout
	}
	if override.ReportTimeout > 0 {
		result.ReportTimeout = override.ReportTimeout
	}
	if override.TreeTimeout > 0 {
		result.TreeTimeout = override.TreeTimeout
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
