package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/fdgraph/internal/fd"
	"github.com/tordrt/fdgraph/internal/layout"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// Section is a named group of dependencies, one per imported table
type Section struct {
	Name string
	FDs  []fd.FD
}

// MultiFileFormatter writes one table file and one diagram per section
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
	Width        float64
	Height       float64
	Layout       layout.Options
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string, width, height float64, opts layout.Options) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
		Width:        width,
		Height:       height,
		Layout:       opts,
	}
}

// Format writes the overview plus <section>.{md,txt} and <section>.svg
func (f *MultiFileFormatter) Format(sections []Section) error {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(sections); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, s := range sections {
		if err := f.writeSection(s); err != nil {
			return fmt.Errorf("failed to write files for %s: %w", s.Name, err)
		}
	}

	return nil
}

func (f *MultiFileFormatter) writeOverview(sections []Section) error {
	filename := filepath.Join(f.OutputDir, "_overview"+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# Dependency Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each table has `<table_name>%s` and a diagram `<table_name>.svg`.\n\n", f.getFileExtension())
		for _, s := range sorted {
			_, _ = fmt.Fprintf(file, "- **%s**: %d dependencies\n", s.Name, len(s.FDs))
		}
		return nil
	}

	for _, s := range sorted {
		_, _ = fmt.Fprintf(file, "%s: %d dependencies\n", s.Name, len(s.FDs))
	}
	return nil
}

func (f *MultiFileFormatter) writeSection(s Section) error {
	base := filepath.Join(f.OutputDir, sanitizeFilename(s.Name))

	if err := writeFile(base+f.getFileExtension(), func(w io.Writer) error {
		if f.OutputFormat == formatMarkdown {
			return NewMarkdownFormatter(w).FormatSection(s.Name, s.FDs)
		}
		_, _ = fmt.Fprintf(w, "TABLE %s\n\n", s.Name)
		return NewTextFormatter(w).FormatTable(s.FDs)
	}); err != nil {
		return err
	}

	l := layout.Compute(s.FDs, f.Width, f.Height, f.Layout)
	return writeFile(base+".svg", func(w io.Writer) error {
		return NewSVGFormatter(w).FormatGraph(l)
	})
}

func writeFile(name string, fn func(io.Writer) error) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fn(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatText {
		return ".txt"
	}
	return ".md"
}

func sanitizeFilename(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			out[i] = '_'
		}
	}
	return string(out)
}
