package encoding

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

const blockSeparator = "================================================\n"

func fileBlock(name string, body string) string {
	return blockSeparator + "FILE: " + name + "\n" + blockSeparator + body + "\n\n"
}

const decodeFailure = "Error reading file with 'cp1252': 'charmap' codec can't decode byte 0x9d in position 1234: character maps to <undefined>"

func TestDetect(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "single_failure",
			content:  fileBlock("docs/guide.md", decodeFailure),
			expected: []string{"docs/guide.md"},
		},
		{
			name:     "normal_content",
			content:  fileBlock("docs/guide.md", "# Guide\nAll good here."),
			expected: nil,
		},
		{
			name: "order_preserved",
			content: fileBlock("b.md", decodeFailure) +
				fileBlock("ok.md", "fine") +
				fileBlock("a.md", "Error reading file with 'utf-8': 'codec' can't decode byte 0xff"),
			expected: []string{"b.md", "a.md"},
		},
		{
			name:     "case_insensitive",
			content:  fileBlock("README.md", strings.ToUpper(decodeFailure)),
			expected: []string{"README.md"},
		},
		{
			name:     "name_trimmed",
			content:  "FILE:    spaced/name.txt   \r\n" + decodeFailure,
			expected: []string{"spaced/name.txt"},
		},
		{
			name:     "signature_belongs_to_next_block",
			content:  fileBlock("clean.md", "nothing wrong") + fileBlock("broken.md", decodeFailure),
			expected: []string{"broken.md"},
		},
		{
			name:     "signature_outside_window",
			content:  "FILE: far.md\n" + strings.Repeat("x", DefaultWindow+10) + decodeFailure,
			expected: nil,
		},
		{
			name:     "no_declarations",
			content:  decodeFailure,
			expected: nil,
		},
		{
			name:     "empty",
			content:  "",
			expected: nil,
		},
	}
	detector := NewDetector()
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			affected := detector.Detect(testCase.content)
			if !reflect.DeepEqual(affected, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, affected)
			}
		})
	}
}

func TestDetectWithCustomSignature(t *testing.T) {
	detector := NewDetector().WithSignature(regexp.MustCompile(`BROKEN`))
	affected := detector.Detect(fileBlock("x.txt", "BROKEN") + fileBlock("y.txt", decodeFailure))
	if !reflect.DeepEqual(affected, []string{"x.txt"}) {
		t.Fatalf("unexpected result %v", affected)
	}
}

func TestDetectFile(t *testing.T) {
	tempDir := t.TempDir()
	artifactPath := filepath.Join(tempDir, "digest.txt")
	if err := os.WriteFile(artifactPath, []byte(fileBlock("setup.py", decodeFailure)), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	affected := DetectFile(NewDetector(), artifactPath)
	if !reflect.DeepEqual(affected, []string{"setup.py"}) {
		t.Fatalf("unexpected result %v", affected)
	}
}

func TestDetectFileUnreadableReturnsEmpty(t *testing.T) {
	tempDir := t.TempDir()
	if affected := DetectFile(NewDetector(), filepath.Join(tempDir, "missing.txt")); len(affected) != 0 {
		t.Fatalf("expected no results for a missing file, got %v", affected)
	}
	if affected := DetectFile(NewDetector(), tempDir); len(affected) != 0 {
		t.Fatalf("expected no results for a directory, got %v", affected)
	}
	if affected := DetectFile(nil, filepath.Join(tempDir, "missing.txt")); affected != nil {
		t.Fatalf("expected nil detector to yield nil")
	}
}
