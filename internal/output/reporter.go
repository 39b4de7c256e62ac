// Package output renders command results, warnings, and prompts for the console.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	successPrefix = "[OK]"
	warningPrefix = "[WARNING]"
	errorPrefix   = "[ERROR]"

	tokensSuffix = " tokens"

	encodingWarningListFormat    = "[WARNING] Encoding errors detected in %d file(s):"
	encodingWarningSummaryFormat = "[WARNING] Encoding errors detected in %d file(s)."
	encodingWarningItemFormat    = "  - %s"
	encodingWarningMoreFormat    = "  ... and %d more"
	encodingKnownIssueLine       = "This is a known GitIngest issue on Windows with UTF-8 files."
	encodingWorkaroundLine       = "See README.md 'Known Issues' for workarounds."
)

// FormatTokenCount renders count with comma grouping, e.g. "145,000 tokens".
func FormatTokenCount(count int) string {
	return FormatNumber(count) + tokensSuffix
}

// FormatNumber renders count with comma grouping.
func FormatNumber(count int) string {
	return humanize.Comma(int64(count))
}

// FormatBytes renders a byte size, e.g. "1.2 MB".
func FormatBytes(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}

// Reporter writes user-facing lines. Results go to the output writer; encoding
// warnings and errors go to the error writer.
type Reporter struct {
	out          io.Writer
	errOut       io.Writer
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewReporter constructs a Reporter. Styles only emit color when the writer is a terminal.
func NewReporter(out io.Writer, errOut io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)
	return &Reporter{
		out:          out,
		errOut:       errOut,
		successStyle: outRenderer.NewStyle().Foreground(lipgloss.Color("2")),
		warningStyle: outRenderer.NewStyle().Foreground(lipgloss.Color("11")),
		errorStyle:   errRenderer.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Line writes a formatted line to the output writer.
func (reporter *Reporter) Line(format string, arguments ...any) {
	fmt.Fprintf(reporter.out, format+"\n", arguments...)
}

// Blank writes an empty line.
func (reporter *Reporter) Blank() {
	fmt.Fprintln(reporter.out)
}

// Success writes an [OK] line.
func (reporter *Reporter) Success(format string, arguments ...any) {
	fmt.Fprintln(reporter.out, reporter.successStyle.Render(successPrefix)+" "+fmt.Sprintf(format, arguments...))
}

// Warning writes a [WARNING] line to the output writer.
func (reporter *Reporter) Warning(format string, arguments ...any) {
	fmt.Fprintln(reporter.out, reporter.warningStyle.Render(warningPrefix)+" "+fmt.Sprintf(format, arguments...))
}

// Error writes an [ERROR] line to the error writer. It renders the single fatal line of a failed command.
func (reporter *Reporter) Error(format string, arguments ...any) {
	fmt.Fprintln(reporter.errOut, reporter.errorStyle.Render(errorPrefix)+" "+fmt.Sprintf(format, arguments...))
}

// TokenCount writes the "Token count:" line.
func (reporter *Reporter) TokenCount(count int) {
	reporter.Line("Token count: %s", FormatTokenCount(count))
}

// EncodingWarnings lists up to limit affected files followed by a remainder count.
// A limit of zero or less prints only the number of affected files.
func (reporter *Reporter) EncodingWarnings(files []string, limit int) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(reporter.errOut)
	if limit <= 0 {
		fmt.Fprintf(reporter.errOut, encodingWarningSummaryFormat+"\n", len(files))
	} else {
		fmt.Fprintf(reporter.errOut, encodingWarningListFormat+"\n", len(files))
		shown := files
		if len(shown) > limit {
			shown = shown[:limit]
		}
		for _, file := range shown {
			fmt.Fprintf(reporter.errOut, encodingWarningItemFormat+"\n", file)
		}
		if remaining := len(files) - len(shown); remaining > 0 {
			fmt.Fprintf(reporter.errOut, encodingWarningMoreFormat+"\n", remaining)
		}
		fmt.Fprintln(reporter.errOut)
	}
	fmt.Fprintln(reporter.errOut, encodingKnownIssueLine)
	fmt.Fprintln(reporter.errOut, encodingWorkaroundLine)
}
