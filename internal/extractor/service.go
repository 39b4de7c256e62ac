package extractor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/temirov/gitingest-agent/internal/encoding"
	"github.com/temirov/gitingest-agent/internal/filters"
	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	outputFlag  = "-o"
	includeFlag = "-i"
	excludeFlag = "-e"
	sizeFlag    = "-s"
	stdoutPath  = "-"

	// the tool refuses to run without an include pattern, so the tree
	// extraction includes one file and truncates every file to this size
	treeIncludePattern = "README.md"
	treeMaxFileSize    = 1024

	reportTimeoutMessage = "Token counting timed out after %d seconds. " +
		"Repository may be very large. Retry with 'extract-tree' command first, " +
		"then use 'extract-specific --type installation' for minimal content."
	treeReadFailureMessage = "Failed to read tree output"
)

// Timeouts bounds each kind of tool invocation.
type Timeouts struct {
	Full     time.Duration
	Filtered time.Duration
	Report   time.Duration
	Tree     time.Duration
}

// DefaultTimeouts returns 300s for content extraction and 120s for reports and trees.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Full:     300 * time.Second,
		Filtered: 300 * time.Second,
		Report:   120 * time.Second,
		Tree:     120 * time.Second,
	}
}

// withDefaults fills zero durations from DefaultTimeouts.
func (timeouts Timeouts) withDefaults() Timeouts {
	defaults := DefaultTimeouts()
	if timeouts.Full <= 0 {
		timeouts.Full = defaults.Full
	}
	if timeouts.Filtered <= 0 {
		timeouts.Filtered = defaults.Filtered
	}
	if timeouts.Report <= 0 {
		timeouts.Report = defaults.Report
	}
	if timeouts.Tree <= 0 {
		timeouts.Tree = defaults.Tree
	}
	return timeouts
}

// ArtifactStore resolves where an artifact for a repository is written.
type ArtifactStore interface {
	ArtifactPath(repoName string, artifactName string) (string, error)
}

// Service performs extractions and checks every artifact for decode failures.
type Service struct {
	runner   Runner
	store    ArtifactStore
	detector encoding.Detector
	timeouts Timeouts
}

// NewService wires a Service. A nil detector disables encoding checks.
func NewService(runner Runner, store ArtifactStore, detector encoding.Detector, timeouts Timeouts) *Service {
	return &Service{
		runner:   runner,
		store:    store,
		detector: detector,
		timeouts: timeouts.withDefaults(),
	}
}

// Report runs the tool in report mode and returns its standard output.
func (service *Service) Report(ctx context.Context, locator types.Locator) (string, error) {
	arguments := []string{locator.URL(), outputFlag, stdoutPath}
	report, err := service.runner.Run(ctx, arguments, service.timeouts.Report)
	if err != nil {
		if types.ReasonOf(err) == types.ReasonTimeout {
			seconds := int(service.timeouts.Report.Seconds())
			return "", types.ExtractionError(types.ReasonTimeout, fmt.Sprintf(reportTimeoutMessage, seconds), err)
		}
		return "", err
	}
	return report, nil
}

// ExtractAll writes the whole repository to the digest artifact.
func (service *Service) ExtractAll(ctx context.Context, locator types.Locator) (types.ExtractionResult, error) {
	outputPath, err := service.store.ArtifactPath(locator.Name(), types.ExtractionDigest)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	arguments := []string{locator.URL(), outputFlag, outputPath}
	if _, runErr := service.runner.Run(ctx, arguments, service.timeouts.Full); runErr != nil {
		return types.ExtractionResult{}, runErr
	}
	return service.result(outputPath), nil
}

// ExtractTree writes a structure-only artifact and returns its text.
func (service *Service) ExtractTree(ctx context.Context, locator types.Locator) (types.ExtractionResult, error) {
	outputPath, err := service.store.ArtifactPath(locator.Name(), types.ExtractionTree)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	arguments := []string{
		locator.URL(),
		includeFlag, treeIncludePattern,
		sizeFlag, strconv.Itoa(treeMaxFileSize),
		outputFlag, outputPath,
	}
	if _, runErr := service.runner.Run(ctx, arguments, service.timeouts.Tree); runErr != nil {
		return types.ExtractionResult{}, runErr
	}
	content, readErr := os.ReadFile(outputPath)
	if readErr != nil {
		return types.ExtractionResult{}, types.StorageError(treeReadFailureMessage, readErr)
	}
	result := service.result(outputPath)
	result.Content = string(content)
	return result, nil
}

// ExtractSpecific validates tag and extracts with its preset filters.
func (service *Service) ExtractSpecific(ctx context.Context, locator types.Locator, tag string) (types.ExtractionResult, error) {
	contentType, err := filters.ParseContentType(tag)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	presets, err := filters.Lookup(tag)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	result, err := service.ExtractFiltered(ctx, locator, presets, contentType.ArtifactName())
	if err != nil {
		return types.ExtractionResult{}, err
	}
	result.ContentType = contentType
	return result, nil
}

// ExtractFiltered extracts the files matching selection into artifactName.
func (service *Service) ExtractFiltered(ctx context.Context, locator types.Locator, selection types.Filters, artifactName string) (types.ExtractionResult, error) {
	outputPath, err := service.store.ArtifactPath(locator.Name(), artifactName)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	arguments := []string{locator.URL()}
	for _, pattern := range selection.Include() {
		arguments = append(arguments, includeFlag, pattern)
	}
	for _, pattern := range selection.Exclude() {
		arguments = append(arguments, excludeFlag, pattern)
	}
	arguments = append(arguments, outputFlag, outputPath)

	if _, runErr := service.runner.Run(ctx, arguments, service.timeouts.Filtered); runErr != nil {
		return types.ExtractionResult{}, runErr
	}
	return service.result(outputPath), nil
}

func (service *Service) result(outputPath string) types.ExtractionResult {
	return types.ExtractionResult{
		Path:           outputPath,
		EncodingErrors: encoding.DetectFile(service.detector, outputPath),
	}
}
