// Package tokenizer estimates token volume and decides between full and selective extraction.
package tokenizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"unicode/utf8"
)

const (
	// CharactersPerToken is the fixed ratio used by the heuristic estimate.
	CharactersPerToken = 4

	heuristicName = "heuristic"
)

// ErrFileNotFound is returned by CountFile when the artifact does not exist.
var ErrFileNotFound = errors.New("file not found")

var reportedTokensPattern = regexp.MustCompile(`Estimated tokens:\s*(\d+)`)

// HeuristicCounter estimates one token per four characters.
type HeuristicCounter struct{}

// Name identifies the heuristic.
func (HeuristicCounter) Name() string {
	return heuristicName
}

// CountString returns EstimateString(input). It never fails.
func (HeuristicCounter) CountString(input string) (int, error) {
	return EstimateString(input), nil
}

// EstimateString returns the character count of input floor-divided by CharactersPerToken.
// Characters are Unicode code points.
func EstimateString(input string) int {
	return utf8.RuneCountInString(input) / CharactersPerToken
}

// EstimateFromReport extracts the token count the extraction tool printed.
// When the marker is absent the whole report is estimated with EstimateString.
func EstimateFromReport(report string) int {
	if match := reportedTokensPattern.FindStringSubmatch(report); match != nil {
		if reported, err := strconv.Atoi(match[1]); err == nil {
			return reported
		}
	}
	return EstimateString(report)
}

// CountFile estimates the tokens of an artifact already written to disk.
func CountFile(path string) (int, error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return 0, fmt.Errorf("read %s: %w", path, readErr)
	}
	return EstimateString(string(data)), nil
}

// CountFileWith counts the artifact at path with counter.
func CountFileWith(counter Counter, path string) (int, error) {
	if counter == nil {
		return 0, errors.New("nil tokenizer counter")
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return 0, fmt.Errorf("read %s: %w", path, readErr)
	}
	return counter.CountString(string(data))
}
