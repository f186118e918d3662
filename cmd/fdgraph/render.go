package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/fdgraph/internal/config"
	"github.com/tordrt/fdgraph/internal/fdfile"
	"github.com/tordrt/fdgraph/internal/session"
)

var (
	renderFiles       []string
	renderFDs         []string
	renderSVG         string
	renderFormat      string
	renderOutput      string
	renderSkipInvalid bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Validate dependencies and render the table and diagram once",
	Example: `  fdgraph render --fd "A, B -> C" --fd "C -> D" --svg deps.svg
  fdgraph render --file deps.yaml --format markdown -o deps.md`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringArrayVarP(&renderFiles, "file", "i", nil, "Dependency file (.yaml, .yml, .fd or .txt), repeatable")
	renderCmd.Flags().StringArrayVar(&renderFDs, "fd", nil, `Dependency such as "A, B -> C", repeatable`)
	renderCmd.Flags().StringVar(&renderSVG, "svg", "", "Write the diagram to this SVG file")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "text", "Table format: text or markdown")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Table output file (default: stdout)")
	renderCmd.Flags().BoolVar(&renderSkipInvalid, "skip-invalid", false, "Render the valid dependencies even if some are rejected")
}

func runRender(cmd *cobra.Command, _ []string) error {
	var entries []fdfile.Entry
	for _, path := range renderFiles {
		fileEntries, err := fdfile.Load(path)
		if err != nil {
			return err
		}
		entries = append(entries, fileEntries...)
	}
	for _, arg := range renderFDs {
		e, err := parseFDArg(arg)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no dependencies given: use --file or --fd")
	}

	var writer io.Writer = os.Stdout
	if renderOutput != "" {
		f, err := os.Create(renderOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	return renderDependencies(cfg, log, entries, renderTarget{
		Table:       writer,
		Format:      renderFormat,
		SVGPath:     renderSVG,
		SkipInvalid: renderSkipInvalid,
	})
}

// renderTarget says where one render goes
type renderTarget struct {
	Table       io.Writer
	Format      string
	SVGPath     string
	SkipInvalid bool
}

// renderDependencies loads entries into a fresh session and attaches the
// views, which render once on attach. Rejected entries are logged; unless
// SkipInvalid is set they abort before anything is written.
func renderDependencies(c config.Config, l *slog.Logger, entries []fdfile.Entry, target renderTarget) error {
	tableFormatter, err := newTableFormatter(target.Format, target.Table)
	if err != nil {
		return err
	}

	sess, err := newSession(c, l)
	if err != nil {
		return err
	}
	defer sess.Close()

	rejected := fdfile.Apply(sess, entries)
	for _, err := range rejected {
		l.Warn("dependency not added", "error", err)
	}
	if len(rejected) > 0 && !target.SkipInvalid {
		return fmt.Errorf("%d of %d dependencies rejected", len(rejected), len(entries))
	}

	if err := sess.Attach(&session.TableView{Formatter: tableFormatter}); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	if target.SVGPath != "" {
		if err := sess.Attach(session.NewFileGraphView(target.SVGPath, c.LayoutOptions(), l)); err != nil {
			return err
		}
		l.Info("diagram written", "path", target.SVGPath, "dependencies", len(sess.FDs()))
	}
	return nil
}

// parseFDArg reads a --fd value of the form "A, B -> C"
func parseFDArg(arg string) (fdfile.Entry, error) {
	det, dep, ok := fdfile.SplitArrow(arg)
	if !ok {
		return fdfile.Entry{}, fmt.Errorf("invalid --fd %q: expected determinant %s dependent", arg, fdfile.Arrow)
	}
	return fdfile.Entry{Determinant: fdfile.Field(det), Dependent: fdfile.Field(dep)}, nil
}
