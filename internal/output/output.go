// Package output prints short status lines for CLI commands.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Aman-CERP/wordtracker/internal/ui"
)

// Writer prints status lines. Console write errors are ignored.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a Writer. Color follows ui.GetStyles.
func New(out io.Writer, noColor bool) *Writer {
	return &Writer{out: out, styles: ui.GetStyles(noColor)}
}

// Status prints msg behind an icon, or indented when icon is empty.
func (w *Writer) Status(icon, msg string) {
	if icon == "" {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
		return
	}
	_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
}

// Statusf is Status with formatting.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Successf prints a green check line.
func (w *Writer) Successf(format string, args ...any) {
	w.Status(w.styles.Success.Render("✓"), fmt.Sprintf(format, args...))
}

// Warningf prints a yellow warning line.
func (w *Writer) Warningf(format string, args ...any) {
	w.Status(w.styles.Warning.Render("!"), fmt.Sprintf(format, args...))
}

// Errorf prints a red error line.
func (w *Writer) Errorf(format string, args ...any) {
	w.Status(w.styles.Error.Render("✗"), fmt.Sprintf(format, args...))
}

// Field prints an aligned "label: value" line.
func (w *Writer) Field(label string, value any) {
	_, _ = fmt.Fprintf(w.out, "  %s %v\n", w.styles.Label.Render(fmt.Sprintf("%-12s", label+":")), value)
}

// Header prints a section title.
func (w *Writer) Header(title string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(title))
}

// Code prints content indented between blank lines.
func (w *Writer) Code(content string) {
	_, _ = fmt.Fprintln(w.out)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		_, _ = fmt.Fprintf(w.out, "  %s\n", line)
	}
	_, _ = fmt.Fprintln(w.out)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
