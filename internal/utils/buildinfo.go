package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion = "unknown"
	develVersion   = "(devel)"
)

// Version is set at link time with -ldflags "-X .../internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion returns the linked version, the module version from
// build info, or the nearest git tag, in that order.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}

	repositoryRoot, findErr := findGitDirectory(".")
	if findErr != nil {
		return unknownVersion
	}
	describeCommands := [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	}
	for _, arguments := range describeCommands {
		// #nosec G204
		command := exec.Command("git", arguments...)
		command.Dir = repositoryRoot
		describeOutput, describeErr := command.Output()
		if describeErr == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findGitDirectory walks upward from startDirectory to the first directory holding .git.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, absErr := filepath.Abs(startDirectory)
	if absErr != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, absErr)
	}

	currentDirectory := absoluteStartDirectory
	for {
		info, statErr := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statErr == nil && info.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf(".git directory not found in or above %s", absoluteStartDirectory)
		}
		currentDirectory = parentDirectory
	}
}
