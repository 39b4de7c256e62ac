// Package encoding finds files that the extraction tool failed to decode.
//
// gitingest writes one block per file, introduced by a "FILE: <path>" line.
// When it cannot transcode a file it leaves an error message in the block
// instead of the content. The rest of the artifact stays usable, so these
// failures are reported as warnings and never as errors.
package encoding

import (
	"os"
	"regexp"
	"strings"
)

// DefaultWindow caps how far past a declaration the signature is searched.
const DefaultWindow = 4096

var (
	declarationPattern = regexp.MustCompile(`(?m)^FILE:[ \t]*(.+)$`)
	// e.g. Error reading file with 'cp1252': 'charmap' codec can't decode byte 0x9d
	gitingestSignature = regexp.MustCompile(`(?i)Error reading file with '[^']+': '(?:charmap|codec).*?(?:can't decode|character maps to)`)
)

// Detector reports the files in an extraction artifact whose content is a decode failure.
type Detector interface {
	Detect(content string) []string
}

// SignatureDetector scans each file block for a fixed corruption signature.
type SignatureDetector struct {
	declaration *regexp.Regexp
	signature   *regexp.Regexp
	window      int
}

// NewDetector returns a detector for gitingest's decode failure messages.
func NewDetector() SignatureDetector {
	return SignatureDetector{
		declaration: declarationPattern,
		signature:   gitingestSignature,
		window:      DefaultWindow,
	}
}

// WithSignature returns a copy of the detector matching signature instead.
func (detector SignatureDetector) WithSignature(signature *regexp.Regexp) SignatureDetector {
	if signature != nil {
		detector.signature = signature
	}
	return detector
}

// Detect returns declared file names, in order of appearance, whose block
// contains the signature within the window. The window ends at the next
// declaration or after window bytes, whichever comes first.
func (detector SignatureDetector) Detect(content string) (affected []string) {
	defer func() {
		if recover() != nil {
			affected = nil
		}
	}()
	if detector.declaration == nil || detector.signature == nil || content == "" {
		return nil
	}
	declarations := detector.declaration.FindAllStringSubmatchIndex(content, -1)
	for index, declaration := range declarations {
		windowStart := declaration[1]
		windowEnd := len(content)
		if index+1 < len(declarations) {
			windowEnd = declarations[index+1][0]
		}
		if detector.window > 0 && windowEnd-windowStart > detector.window {
			windowEnd = windowStart + detector.window
		}
		if !detector.signature.MatchString(content[windowStart:windowEnd]) {
			continue
		}
		name := strings.TrimSpace(content[declaration[2]:declaration[3]])
		if name != "" {
			affected = append(affected, name)
		}
	}
	return affected
}

// DetectFile reads path and runs detector over it. Read failures yield no results.
func DetectFile(detector Detector, path string) []string {
	if detector == nil {
		return nil
	}
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil
	}
	return detector.Detect(string(data))
}

var _ Detector = SignatureDetector{}
