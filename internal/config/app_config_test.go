package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/temirov/gitingest-agent/internal/utils"
)

type configTestCase struct {
	name             string
	globalContent    string
	localContent     string
	explicitPath     string
	explicitContent  string
	environment      map[string]string
	expectExecutable string
	expectFull       time.Duration
	expectReport     time.Duration
	expectOutputDir  string
	expectModel      string
	expectToken      string
	expectCopy       *bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		GitHubTokenEnvironmentVariable,
		"GITINGEST_AGENT_GITHUB_TOKEN",
		"GITINGEST_AGENT_GITINGEST_EXECUTABLE",
		"GITINGEST_AGENT_GITINGEST_FULL_TIMEOUT",
		"GITINGEST_AGENT_GITINGEST_REPORT_TIMEOUT",
		"GITINGEST_AGENT_STORAGE_OUTPUT_DIR",
		"GITINGEST_AGENT_TOKENS_MODEL",
		"GITINGEST_AGENT_OUTPUT_COPY",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:             "local_overrides_global",
			globalContent:    "gitingest:\n  executable: /opt/gitingest\n  full_timeout: 10m\noutput:\n  copy: true\n",
			localContent:     "gitingest:\n  report_timeout: 45s\nstorage:\n  output_dir: research\noutput:\n  copy: false\n",
			expectExecutable: "/opt/gitingest",
			expectFull:       10 * time.Minute,
			expectReport:     45 * time.Second,
			expectOutputDir:  "research",
			expectCopy:       boolPointer(false),
		},
		{
			name:             "explicit_path_replaces_local",
			globalContent:    "tokens:\n  model: gpt-4o\n",
			localContent:     "gitingest:\n  executable: ignored\n",
			explicitPath:     "custom.yaml",
			explicitContent:  "gitingest:\n  executable: custom-gitingest\n",
			expectExecutable: "custom-gitingest",
			expectModel:      "gpt-4o",
		},
		{
			name:          "environment_overrides_files",
			globalContent: "gitingest:\n  executable: from-file\ngithub:\n  token: file-token\n",
			environment: map[string]string{
				"GITINGEST_AGENT_GITINGEST_EXECUTABLE":     "from-env",
				"GITINGEST_AGENT_GITINGEST_REPORT_TIMEOUT": "90s",
				GitHubTokenEnvironmentVariable:             "env-token",
			},
			expectExecutable: "from-env",
			expectReport:     90 * time.Second,
			expectToken:      "env-token",
		},
		{
			name:          "environment_overrides_copy",
			globalContent: "output:\n  copy: false\n",
			environment: map[string]string{
				"GITINGEST_AGENT_OUTPUT_COPY": "true",
			},
			expectCopy: boolPointer(true),
		},
		{
			name: "nothing_configured",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			clearEnvironment(t)
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.GlobalConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.LocalConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}
			for name, value := range testCase.environment {
				t.Setenv(name, value)
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.GitIngest.Executable != testCase.expectExecutable {
				t.Fatalf("expected executable %q, got %q", testCase.expectExecutable, loadedConfig.GitIngest.Executable)
			}
			if loadedConfig.GitIngest.FullTimeout != testCase.expectFull {
				t.Fatalf("expected full timeout %s, got %s", testCase.expectFull, loadedConfig.GitIngest.FullTimeout)
			}
			if loadedConfig.GitIngest.ReportTimeout != testCase.expectReport {
				t.Fatalf("expected report timeout %s, got %s", testCase.expectReport, loadedConfig.GitIngest.ReportTimeout)
			}
			if loadedConfig.Storage.OutputDirectory != testCase.expectOutputDir {
				t.Fatalf("expected output dir %q, got %q", testCase.expectOutputDir, loadedConfig.Storage.OutputDirectory)
			}
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
			if loadedConfig.GitHub.Token != testCase.expectToken {
				t.Fatalf("expected token %q, got %q", testCase.expectToken, loadedConfig.GitHub.Token)
			}
			if testCase.expectCopy == nil {
				if loadedConfig.Output.Copy != nil {
					t.Fatalf("expected no copy override")
				}
			} else if loadedConfig.Output.Copy == nil || *loadedConfig.Output.Copy != *testCase.expectCopy {
				t.Fatalf("unexpected copy value")
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsBadEnvironmentDuration(t *testing.T) {
	clearEnvironment(t)
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	t.Setenv("GITINGEST_AGENT_GITINGEST_FULL_TIMEOUT", "soon")

	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir()})
	if err == nil {
		t.Fatalf("expected error for unparsable duration")
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	clearEnvironment(t)
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	workingDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(workingDir, utils.LocalConfigFileName), 0o755); err != nil {
		t.Fatalf("create directory: %v", err)
	}

	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir})
	if err == nil {
		t.Fatalf("expected error when configuration path is a directory")
	}
}

func TestMergeKeepsUnsetValues(t *testing.T) {
	base := ApplicationConfiguration{
		GitIngest: GitIngestConfiguration{Executable: "gitingest", TreeTimeout: time.Minute},
		Output:    OutputConfiguration{Copy: boolPointer(true)},
	}
	merged := base.Merge(ApplicationConfiguration{})
	if merged.GitIngest.Executable != "gitingest" || merged.GitIngest.TreeTimeout != time.Minute {
		t.Fatalf("expected base values to survive an empty override, got %+v", merged.GitIngest)
	}
	if merged.Output.Copy == nil || !*merged.Output.Copy {
		t.Fatalf("expected copy to survive an empty override")
	}
}
