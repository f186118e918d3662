package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tordrt/fdgraph/internal/config"
	"github.com/tordrt/fdgraph/internal/formatter"
	"github.com/tordrt/fdgraph/internal/logger"
	"github.com/tordrt/fdgraph/internal/session"
)

var (
	configPath string

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fdgraph",
	Short: "Record functional dependencies and draw them as a diagram",
	Long: `fdgraph records functional dependencies between attributes (A, B -> C),
rejects malformed, trivial or duplicate ones, and renders the result as a
table and as a circular node-link SVG diagram. Dependencies can be typed in
a shell, read from a file, or derived from the keys of a database.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(renderCmd, shellCmd, watchCmd, importCmd)
}

// loadConfig resolves settings: defaults, config file, .env and FDGRAPH_*
// variables, then flags given on the command line
func loadConfig(cmd *cobra.Command, _ []string) error {
	c := config.Default()
	if configPath != "" {
		if err := c.LoadFile(configPath); err != nil {
			return err
		}
	}
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if err := c.ApplyFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = c
	log = logger.New(c.Verbose)
	log.Debug("configuration loaded", "width", c.Width, "height", c.Height,
		"max_attribute_length", c.MaxAttributeLength, "debounce", c.Debounce)
	return nil
}

func newSession(c config.Config, l *slog.Logger) (*session.Session, error) {
	return session.New(session.Config{
		Logger:         l,
		Validator:      c.Validator(),
		Width:          c.Width,
		Height:         c.Height,
		ResizeDebounce: c.Debounce,
	})
}

func newTableFormatter(format string, w io.Writer) (session.TableFormatter, error) {
	switch format {
	case "text":
		return formatter.NewTextFormatter(w), nil
	case "markdown":
		return formatter.NewMarkdownFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", format)
	}
}

func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}
	tableList := strings.Split(tables, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
