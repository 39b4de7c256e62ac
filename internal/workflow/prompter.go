package workflow

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoInput is returned when the controlling actor closes input before answering.
var ErrNoInput = errors.New("no input available for prompt")

// Prompter asks the controlling actor one question and returns the answer.
// An empty answer selects defaultValue.
type Prompter interface {
	Ask(label string, defaultValue string) (string, error)
}

// ConsolePrompter reads answers line by line from a reader.
type ConsolePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConsolePrompter constructs a prompter that writes prompts to writer and reads from reader.
func NewConsolePrompter(reader io.Reader, writer io.Writer) *ConsolePrompter {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsolePrompter{reader: bufio.NewReader(reader), writer: writer}
}

// Ask prints "label [default]: " and returns the trimmed answer.
func (prompter *ConsolePrompter) Ask(label string, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(prompter.writer, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(prompter.writer, "%s: ", label)
	}
	line, readErr := prompter.reader.ReadString('\n')
	if readErr != nil && !(errors.Is(readErr, io.EOF) && line != "") {
		if errors.Is(readErr, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read prompt answer: %w", readErr)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

var _ Prompter = (*ConsolePrompter)(nil)
