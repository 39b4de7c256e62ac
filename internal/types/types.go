// Package types defines every cross-package data structure used by the gitingest-agent CLI.
package types

import "fmt"

const (
	CommandCheckSize       = "check-size"
	CommandExtractFull     = "extract-full"
	CommandExtractTree     = "extract-tree"
	CommandExtractSpecific = "extract-specific"
	CommandSaveAnalysis    = "save-analysis"
	CommandInfo            = "info"
	CommandInit            = "init"

	// ExtractionDigest names the artifact written by a full extraction.
	ExtractionDigest = "digest"
	// ExtractionTree names the artifact written by a tree extraction.
	ExtractionTree = "tree"
)

// ContentType is a tag selecting a preset filter pair for selective extraction.
type ContentType string

const (
	ContentTypeDocs         ContentType = "docs"
	ContentTypeInstallation ContentType = "installation"
	ContentTypeCode         ContentType = "code"
	ContentTypeAuto         ContentType = "auto"
)

// ContentTypes lists every recognized content type in display order.
var ContentTypes = []ContentType{
	ContentTypeDocs,
	ContentTypeInstallation,
	ContentTypeCode,
	ContentTypeAuto,
}

// String returns the tag value.
func (contentType ContentType) String() string {
	return string(contentType)
}

// ArtifactName returns the base name used for the extracted file of this content type.
func (contentType ContentType) ArtifactName() string {
	return string(contentType) + "-content"
}

// Locator is a validated owner/name pair parsed from a repository URL.
type Locator struct {
	owner string
	name  string
	url   string
}

// NewLocator constructs a Locator. Callers are expected to have validated the parts.
func NewLocator(owner string, name string, url string) Locator {
	return Locator{owner: owner, name: name, url: url}
}

// Owner returns the repository owner.
func (locator Locator) Owner() string {
	return locator.owner
}

// Name returns the repository name without any .git suffix.
func (locator Locator) Name() string {
	return locator.name
}

// URL returns the URL the locator was parsed from, unmodified.
func (locator Locator) URL() string {
	return locator.url
}

// FullName returns owner/name.
func (locator Locator) FullName() string {
	return fmt.Sprintf("%s/%s", locator.owner, locator.name)
}

// Filters is an immutable include/exclude pattern pair.
type Filters struct {
	include []string
	exclude []string
}

// NewFilters copies the provided pattern lists into a Filters value.
func NewFilters(include []string, exclude []string) Filters {
	return Filters{
		include: append([]string{}, include...),
		exclude: append([]string{}, exclude...),
	}
}

// Include returns a copy of the include patterns.
func (filters Filters) Include() []string {
	return append([]string{}, filters.include...)
}

// Exclude returns a copy of the exclude patterns. It is never nil.
func (filters Filters) Exclude() []string {
	return append([]string{}, filters.exclude...)
}

// ExtractionResult is the outcome of a single extraction attempt.
type ExtractionResult struct {
	// Path is the absolute location of the written artifact.
	Path string
	// Content holds the artifact text when the caller asked for it (tree extraction).
	Content string
	// EncodingErrors lists files the extraction tool failed to decode, in artifact order.
	EncodingErrors []string
	// ContentType is set for selective extractions.
	ContentType ContentType
}

// OverflowDecision is the choice made at an overflow prompt.
type OverflowDecision int

const (
	// DecisionNarrow re-extracts with a different content type.
	DecisionNarrow OverflowDecision = iota + 1
	// DecisionAccept proceeds with the overflowing content.
	DecisionAccept
)

// String returns a readable name for the decision.
func (decision OverflowDecision) String() string {
	switch decision {
	case DecisionNarrow:
		return "narrow-and-retry"
	case DecisionAccept:
		return "accept-overflow"
	default:
		return "unknown"
	}
}
