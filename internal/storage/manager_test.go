package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gitingest-agent/internal/types"
)

func createProjectMarkers(t *testing.T, directory string) {
	t.Helper()
	for _, marker := range projectMarkers {
		markerPath := filepath.Join(directory, marker)
		require.NoError(t, os.MkdirAll(filepath.Dir(markerPath), 0o755))
		require.NoError(t, os.WriteFile(markerPath, []byte("package main\n"), 0o600))
	}
}

func TestResolveLayout(t *testing.T) {
	t.Run("context_by_default", func(t *testing.T) {
		workingDirectory := t.TempDir()
		layout := ResolveLayout(workingDirectory, "")
		assert.Equal(t, ModeContext, layout.Mode)
		assert.Equal(t, filepath.Join(workingDirectory, "context", "related-repos"), layout.BaseDirectory)
	})
	t.Run("project_when_markers_exist", func(t *testing.T) {
		workingDirectory := t.TempDir()
		createProjectMarkers(t, workingDirectory)
		layout := ResolveLayout(workingDirectory, "")
		assert.Equal(t, ModeProject, layout.Mode)
		assert.Equal(t, workingDirectory, layout.BaseDirectory)
	})
	t.Run("partial_markers_are_not_a_project", func(t *testing.T) {
		workingDirectory := t.TempDir()
		markerPath := filepath.Join(workingDirectory, projectMarkers[0])
		require.NoError(t, os.MkdirAll(filepath.Dir(markerPath), 0o755))
		require.NoError(t, os.WriteFile(markerPath, nil, 0o600))
		assert.Equal(t, ModeContext, ResolveLayout(workingDirectory, "").Mode)
	})
	t.Run("explicit_relative_output", func(t *testing.T) {
		workingDirectory := t.TempDir()
		createProjectMarkers(t, workingDirectory)
		layout := ResolveLayout(workingDirectory, "out")
		assert.Equal(t, ModeExplicit, layout.Mode)
		assert.Equal(t, filepath.Join(workingDirectory, "out"), layout.BaseDirectory)
	})
}

func TestArtifactPathPerLayout(t *testing.T) {
	testCases := []struct {
		name         string
		mode         Mode
		expectedTail []string
	}{
		{name: "context", mode: ModeContext, expectedTail: []string{"fastapi", "digest.txt"}},
		{name: "project", mode: ModeProject, expectedTail: []string{"data", "fastapi", "digest.txt"}},
		{name: "explicit", mode: ModeExplicit, expectedTail: []string{"fastapi", "digest.txt"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			base := t.TempDir()
			manager := NewManager(Layout{Mode: testCase.mode, BaseDirectory: base}, nil)
			artifactPath, err := manager.ArtifactPath("fastapi", types.ExtractionDigest)
			require.NoError(t, err)
			expected := filepath.Join(append([]string{base}, testCase.expectedTail...)...)
			assert.Equal(t, expected, artifactPath)
			info, statErr := os.Stat(filepath.Dir(artifactPath))
			require.NoError(t, statErr)
			assert.True(t, info.IsDir())
		})
	}
}

func TestEnsureDataDirectoryStorageFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0o600))
	manager := NewManager(Layout{Mode: ModeExplicit, BaseDirectory: blocker}, nil)

	_, err := manager.EnsureDataDirectory("repo")
	require.Error(t, err)
	assert.Equal(t, types.KindStorage, types.KindOf(err))
}

func TestSaveAnalysisWritesHeader(t *testing.T) {
	fixedTime := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	locator := types.NewLocator("facebook", "react", "https://github.com/facebook/react")

	testCases := []struct {
		name         string
		mode         Mode
		expectedTail []string
	}{
		{name: "context", mode: ModeContext, expectedTail: []string{"facebook-react-installation.md"}},
		{name: "project", mode: ModeProject, expectedTail: []string{"analyze", "installation", "react.md"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			base := t.TempDir()
			manager := NewManager(Layout{Mode: testCase.mode, BaseDirectory: base}, nil).WithClock(func() time.Time { return fixedTime })

			savedPath, err := manager.SaveAnalysis("## Steps\n1. npm install\n", locator, "installation")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(append([]string{base}, testCase.expectedTail...)...), savedPath)

			data, readErr := os.ReadFile(savedPath)
			require.NoError(t, readErr)
			expected := "# react - Installation Analysis\n\n" +
				"**Repository:** https://github.com/facebook/react\n" +
				"**Analyzed:** 2026-10-17\n" +
				"**Analysis Type:** installation\n\n" +
				"---\n\n" +
				"## Steps\n1. npm install\n"
			assert.Equal(t, expected, string(data))
		})
	}
}

func TestSaveAnalysisRejectsUnsafeType(t *testing.T) {
	manager := NewManager(Layout{Mode: ModeContext, BaseDirectory: t.TempDir()}, nil)
	locator := types.NewLocator("owner", "repo", "https://github.com/owner/repo")
	_, err := manager.SaveAnalysis("x", locator, "../escape")
	require.Error(t, err)
	assert.Equal(t, types.KindValidation, types.KindOf(err))
}
