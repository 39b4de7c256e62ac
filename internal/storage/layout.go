// Package storage decides where extraction artifacts and analyses are written.
package storage

import (
	"os"
	"path/filepath"
)

// Mode selects the directory layout.
type Mode int

const (
	// ModeContext stores everything under context/related-repos in the working directory.
	ModeContext Mode = iota
	// ModeProject stores artifacts under data/ and analyses under analyze/.
	ModeProject
	// ModeExplicit stores everything under a configured output directory.
	ModeExplicit
)

const (
	contextDirectoryName      = "context"
	relatedReposDirectoryName = "related-repos"
	dataDirectoryName         = "data"
	analyzeDirectoryName      = "analyze"
)

// projectMarkers identify a checkout of this tool; all of them must exist.
var projectMarkers = []string{
	filepath.Join("cmd", "gitingest-agent", "main.go"),
	filepath.Join("internal", "cli", "cli.go"),
}

// Layout is a resolved storage location. It is computed once per command invocation.
type Layout struct {
	Mode          Mode
	BaseDirectory string
}

// ResolveLayout picks the layout for workingDirectory. A non-empty outputDirectory wins.
func ResolveLayout(workingDirectory string, outputDirectory string) Layout {
	if outputDirectory != "" {
		if !filepath.IsAbs(outputDirectory) {
			outputDirectory = filepath.Join(workingDirectory, outputDirectory)
		}
		return Layout{Mode: ModeExplicit, BaseDirectory: filepath.Clean(outputDirectory)}
	}
	if hasProjectMarkers(workingDirectory) {
		return Layout{Mode: ModeProject, BaseDirectory: workingDirectory}
	}
	return Layout{
		Mode:          ModeContext,
		BaseDirectory: filepath.Join(workingDirectory, contextDirectoryName, relatedReposDirectoryName),
	}
}

func hasProjectMarkers(directory string) bool {
	for _, marker := range projectMarkers {
		info, err := os.Stat(filepath.Join(directory, marker))
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// String describes the mode.
func (mode Mode) String() string {
	switch mode {
	case ModeProject:
		return "project"
	case ModeExplicit:
		return "explicit"
	default:
		return "context"
	}
}

func (layout Layout) dataDirectory(repoName string) string {
	if layout.Mode == ModeProject {
		return filepath.Join(layout.BaseDirectory, dataDirectoryName, repoName)
	}
	return filepath.Join(layout.BaseDirectory, repoName)
}

func (layout Layout) analysisDirectory(analysisType string) string {
	if layout.Mode == ModeProject {
		return filepath.Join(layout.BaseDirectory, analyzeDirectoryName, analysisType)
	}
	return layout.BaseDirectory
}

func (layout Layout) analysisFileName(owner string, repoName string, analysisType string) string {
	if layout.Mode == ModeProject {
		return repoName + ".md"
	}
	if owner == "" {
		return repoName + "-" + analysisType + ".md"
	}
	return owner + "-" + repoName + "-" + analysisType + ".md"
}
