package session

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/formatter"
	"github.com/tordrt/fdgraph/internal/layout"
)

// TableFormatter renders the dependency table
type TableFormatter interface {
	FormatTable(fds []fd.FD) error
}

// TableView re-renders the table after every store change. Resizes do not
// affect it.
type TableView struct {
	Formatter TableFormatter
}

func (v *TableView) Render(s Snapshot) error {
	if s.Reason == ReasonResized {
		return nil
	}
	return v.Formatter.FormatTable(s.FDs)
}

// GraphView lays out the diagram and writes it as SVG to whatever Open
// returns, once per render.
type GraphView struct {
	Open    func() (io.WriteCloser, error)
	Options layout.Options
	Logger  *slog.Logger // optional; reports edges the canvas is too small to draw

	mu   sync.Mutex
	last *layout.Layout
}

// NewFileGraphView writes the diagram to path, replacing it on every render
func NewFileGraphView(path string, opts layout.Options, log *slog.Logger) *GraphView {
	return &GraphView{
		Open:    func() (io.WriteCloser, error) { return os.Create(path) },
		Options: opts,
		Logger:  log,
	}
}

func (v *GraphView) Render(s Snapshot) error {
	l := layout.Compute(s.FDs, s.Width, s.Height, v.Options)

	v.mu.Lock()
	v.last = l
	v.mu.Unlock()

	if v.Open == nil {
		return nil
	}
	w, err := v.Open()
	if err != nil {
		return fmt.Errorf("failed to open graph output: %w", err)
	}
	if err := formatter.NewSVGFormatter(w).WithLogger(v.Logger).FormatGraph(l); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return w.Close()
}

// Last returns the most recently rendered layout
func (v *GraphView) Last() *layout.Layout {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}
