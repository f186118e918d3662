package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/fdgraph/internal/debounce"
	"github.com/tordrt/fdgraph/internal/fdfile"
)

var (
	watchFile   string
	watchSVG    string
	watchFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render whenever a dependency file changes",
	Long: `Renders the dependency file, then watches it and renders again after
every change. Bursts of writes are collapsed into one render after the
--debounce delay. Invalid entries are reported and skipped.`,
	Example: `  fdgraph watch --file deps.fd --svg deps.svg`,
	RunE:    runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchFile, "file", "i", "", "Dependency file to watch (required)")
	watchCmd.Flags().StringVar(&watchSVG, "svg", "", "Write the diagram to this SVG file")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "text", "Table format: text or markdown")
	_ = watchCmd.MarkFlagRequired("file")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if _, err := newTableFormatter(watchFormat, os.Stdout); err != nil {
		return err
	}
	target, err := filepath.Abs(watchFile)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors often replace the file instead of writing it, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	// The debouncer fires each reload on its own goroutine; a slow render
	// must finish before the next one writes the same outputs.
	reload := serialize(func() {
		if err := renderWatchedFile(target); err != nil {
			log.Error("failed to render", "file", target, "error", err)
		}
	})
	reload()

	d := debounce.New(clockwork.NewRealClock(), cfg.Debounce, reload)
	defer d.Stop()

	log.Info("watching for changes", "file", target, "debounce", cfg.Debounce)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return watchLoop(ctx, log, watcher.Events, watcher.Errors, target, d.Trigger)
	})
	g.Go(func() error {
		<-ctx.Done()
		return watcher.Close()
	})
	return g.Wait()
}

// serialize wraps fn so that overlapping calls run one at a time
func serialize(fn func()) func() {
	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()
		fn()
	}
}

func renderWatchedFile(path string) error {
	entries, err := fdfile.Load(path)
	if err != nil {
		return err
	}
	return renderDependencies(cfg, log, entries, renderTarget{
		Table:       os.Stdout,
		Format:      watchFormat,
		SVGPath:     watchSVG,
		SkipInvalid: true,
	})
}

// watchLoop calls changed for every event touching target until ctx is done
// or the watcher channels close
func watchLoop(ctx context.Context, l *slog.Logger, events <-chan fsnotify.Event, errs <-chan error, target string, changed func()) error {
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&relevant == 0 {
				continue
			}
			l.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
			changed()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			l.Warn("file watcher error", "error", err)
		}
	}
}
