package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	artifactExtension    = ".txt"
	analysisDateLayout   = "2006-01-02"
	directoryPermissions = 0o755
	filePermissions      = 0o644

	invalidAnalysisTypeFormat = "Invalid analysis type: %q"

	analysisHeaderTemplate = `# %s - %s Analysis

**Repository:** %s
**Analyzed:** %s
**Analysis Type:** %s

---

`
)

var analysisTypePattern = regexp.MustCompile(`^[\w-]+$`)

// Manager creates directories and writes files according to a Layout.
type Manager struct {
	layout Layout
	logger *zap.Logger
	now    func() time.Time
}

// NewManager constructs a Manager. A nil logger discards log output.
func NewManager(layout Layout, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{layout: layout, logger: logger, now: time.Now}
}

// WithClock returns a copy of the manager that stamps analyses using now.
func (manager *Manager) WithClock(now func() time.Time) *Manager {
	copied := *manager
	if now != nil {
		copied.now = now
	}
	return &copied
}

// EnsureDataDirectory creates and returns the absolute artifact directory for repoName.
func (manager *Manager) EnsureDataDirectory(repoName string) (string, error) {
	return manager.ensureDirectory(manager.layout.dataDirectory(repoName))
}

// EnsureAnalysisDirectory creates and returns the absolute directory for analysisType.
func (manager *Manager) EnsureAnalysisDirectory(analysisType string) (string, error) {
	if !analysisTypePattern.MatchString(analysisType) {
		return "", types.ValidationError(invalidAnalysisTypeFormat, analysisType)
	}
	return manager.ensureDirectory(manager.layout.analysisDirectory(analysisType))
}

// ArtifactPath returns the absolute path for an artifact of repoName, creating its directory.
func (manager *Manager) ArtifactPath(repoName string, artifactName string) (string, error) {
	directory, err := manager.EnsureDataDirectory(repoName)
	if err != nil {
		return "", err
	}
	return filepath.Join(directory, artifactName+artifactExtension), nil
}

// SaveAnalysis writes content prefixed with a metadata header and returns the absolute file path.
func (manager *Manager) SaveAnalysis(content string, locator types.Locator, analysisType string) (string, error) {
	directory, err := manager.EnsureAnalysisDirectory(analysisType)
	if err != nil {
		return "", err
	}
	fileName := manager.layout.analysisFileName(locator.Owner(), locator.Name(), analysisType)
	outputPath := filepath.Join(directory, fileName)

	header := fmt.Sprintf(
		analysisHeaderTemplate,
		locator.Name(),
		cases.Title(language.Und).String(analysisType),
		locator.URL(),
		manager.now().Format(analysisDateLayout),
		analysisType,
	)
	if writeErr := os.WriteFile(outputPath, []byte(header+content), filePermissions); writeErr != nil {
		return "", types.StorageError("Failed to write analysis file", writeErr)
	}
	manager.logger.Debug("analysis saved", zap.String("path", outputPath), zap.String("type", analysisType))
	return outputPath, nil
}

func (manager *Manager) ensureDirectory(directory string) (string, error) {
	absoluteDirectory, absErr := filepath.Abs(directory)
	if absErr != nil {
		return "", types.StorageError(fmt.Sprintf("Failed to resolve directory %s", directory), absErr)
	}
	if mkdirErr := os.MkdirAll(absoluteDirectory, directoryPermissions); mkdirErr != nil {
		if errors.Is(mkdirErr, fs.ErrPermission) {
			return "", types.StorageError(fmt.Sprintf("Permission denied creating directory: %s", absoluteDirectory), mkdirErr)
		}
		return "", types.StorageError(fmt.Sprintf("Failed to create directory %s", absoluteDirectory), mkdirErr)
	}
	manager.logger.Debug("storage directory ready", zap.String("path", absoluteDirectory), zap.Stringer("mode", manager.layout.Mode))
	return absoluteDirectory, nil
}
