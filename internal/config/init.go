package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/gitingest-agent/internal/utils"
)

// InitTarget selects which configuration file init writes.
type InitTarget string

const (
	// InitTargetLocal writes .gitingest-agent.yaml next to the repositories being analyzed.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes ~/.gitingest-agent/config.yaml, shared by every working directory.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600

	// durations use Go syntax; zero or absent values fall back to the built-in timeouts
	defaultConfigurationTemplate = `# gitingest-agent configuration
gitingest:
  # path or name of the gitingest executable
  executable: gitingest
  full_timeout: 300s
  filtered_timeout: 300s
  report_timeout: 120s
  tree_timeout: 120s
storage:
  # write every artifact under this directory instead of context/related-repos
  # output_dir: analysis
tokens:
  # print an additional tokenizer-accurate count; routing keeps the 4-characters estimate
  # model: gpt-4o
github:
  # used by the info command; GITHUB_TOKEN is read when unset
  # token: ""
output:
  # copy extracted text to the clipboard unless --copy says otherwise
  copy: false
`
)

// InitOptions describes one init invocation.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the commented template and returns its path.
// An existing file is replaced only when Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, err := resolveInitDestination(options)
	if err != nil {
		return "", err
	}

	_, statErr := os.Stat(destinationPath)
	switch {
	case statErr == nil && !options.Force:
		return "", fmt.Errorf("configuration file already exists at %s; rerun with --force to replace it", destinationPath)
	case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statErr)
	}

	if writeErr := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermissions); writeErr != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, writeErr)
	}
	return destinationPath, nil
}

// resolveInitDestination returns the file path for the target, creating the global directory when needed.
func resolveInitDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryPermissions); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		return filepath.Join(configurationDirectory, utils.GlobalConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", options.Target)
	}
}
