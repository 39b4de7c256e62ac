// Package repository validates repository URLs and derives stable identifiers from them.
package repository

import (
	"regexp"
	"strings"

	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	gitSuffix        = ".git"
	emptyURLMessage  = "URL must be a non-empty string"
	invalidURLFormat = "Invalid GitHub URL format: %s"
)

// scheme://github.com/owner/repo with nothing after the repository segment
var locatorPattern = regexp.MustCompile(`^https?://github\.com/([\w-]+)/([\w-]+)$`)

// ParseLocator validates rawURL and returns its owner/name pair.
// One trailing slash and a trailing .git suffix are stripped before matching.
func ParseLocator(rawURL string) (types.Locator, error) {
	if rawURL == "" {
		return types.Locator{}, types.ValidationError(emptyURLMessage)
	}
	cleaned := strings.TrimSuffix(rawURL, "/")
	cleaned = strings.TrimSuffix(cleaned, gitSuffix)

	match := locatorPattern.FindStringSubmatch(cleaned)
	if match == nil {
		return types.Locator{}, types.ValidationError(invalidURLFormat, rawURL)
	}
	return types.NewLocator(match[1], match[2], rawURL), nil
}
