// Package filters maps content-type tags to the include and exclude patterns passed to the extraction tool.
package filters

import (
	"strings"

	"github.com/temirov/gitingest-agent/internal/types"
)

const invalidContentTypeFormat = "Invalid content type: %s. Valid types: %s"

var registry = map[types.ContentType]types.Filters{
	types.ContentTypeDocs: types.NewFilters(
		[]string{"docs/**/*", "*.md", "README*", "*.rst"},
		[]string{"docs/examples/*", "docs/archive/*"},
	),
	types.ContentTypeInstallation: types.NewFilters(
		[]string{
			"README*", "INSTALL*", "setup.py", "pyproject.toml",
			"package.json", "docs/installation*", "docs/getting-started*",
		},
		nil,
	),
	types.ContentTypeCode: types.NewFilters(
		[]string{"src/**/*.py", "lib/**/*.py"},
		[]string{"tests/*", "*_test.py", "test_*.py", "examples/*"},
	),
	types.ContentTypeAuto: types.NewFilters(
		[]string{"README*", "docs/**/*.md"},
		[]string{"docs/examples/*", "docs/archive/*"},
	),
}

// Lookup returns the filters for tag. Tags are case-sensitive.
func Lookup(tag string) (types.Filters, error) {
	contentType, err := ParseContentType(tag)
	if err != nil {
		return types.Filters{}, err
	}
	return registry[contentType], nil
}

// ParseContentType validates tag against the recognized content types.
func ParseContentType(tag string) (types.ContentType, error) {
	contentType := types.ContentType(tag)
	if _, known := registry[contentType]; !known {
		return "", types.ValidationError(invalidContentTypeFormat, tag, ValidTags())
	}
	return contentType, nil
}

// ValidTags returns the recognized tags joined for display.
func ValidTags() string {
	names := make([]string, 0, len(types.ContentTypes))
	for _, contentType := range types.ContentTypes {
		names = append(names, contentType.String())
	}
	return strings.Join(names, ", ")
}
