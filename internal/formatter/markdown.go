package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/fdgraph/internal/fd"
)

// MarkdownFormatter formats dependencies as a markdown table
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// FormatTable writes the dependencies under a heading
func (f *MarkdownFormatter) FormatTable(fds []fd.FD) error {
	_, _ = fmt.Fprintln(f.writer, "# Functional Dependencies")
	_, _ = fmt.Fprintln(f.writer)
	return f.formatRows(fds)
}

// FormatSection writes a titled table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatSection(name string, fds []fd.FD) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", name)
	return f.formatRows(fds)
}

func (f *MarkdownFormatter) formatRows(fds []fd.FD) error {
	rows := Rows(fds)
	if len(rows) == 0 {
		_, err := fmt.Fprintf(f.writer, "_%s_\n", EmptyTableMessage)
		return err
	}

	_, _ = fmt.Fprintln(f.writer, "| # | Determinant | Dependent | ID |")
	_, _ = fmt.Fprintln(f.writer, "|---|---|---|---|")
	for _, r := range rows {
		_, _ = fmt.Fprintf(f.writer, "| %d | %s | %s | `%s` |\n",
			r.Number,
			escapeCell(r.Determinant),
			escapeCell(r.Dependent),
			r.Handle)
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
