package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tordrt/fdgraph/internal/fd"
)

// TextFormatter formats dependencies as an aligned plain-text table
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// FormatTable writes one row per FD with the handle used to delete it
func (f *TextFormatter) FormatTable(fds []fd.FD) error {
	rows := Rows(fds)
	if len(rows) == 0 {
		_, err := fmt.Fprintln(f.writer, EmptyTableMessage)
		return err
	}

	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tDETERMINANT\t\tDEPENDENT\tDELETE")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t->\t%s\t[%s]\n", r.Number, r.Determinant, r.Dependent, r.Handle)
	}
	return tw.Flush()
}
