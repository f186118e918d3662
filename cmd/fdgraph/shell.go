package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/fdgraph/internal/session"
	"github.com/tordrt/fdgraph/internal/shell"
)

var (
	shellSVG    string
	shellFormat string
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Enter dependencies interactively",
	Long: `Starts an interactive session. Every accepted change reprints the table
and, with --svg, rewrites the diagram file.`,
	RunE: runShell,
}

func init() {
	shellCmd.Flags().StringVar(&shellSVG, "svg", "", "Keep the diagram in this SVG file up to date")
	shellCmd.Flags().StringVarP(&shellFormat, "format", "f", "text", "Table format: text or markdown")
}

func runShell(cmd *cobra.Command, _ []string) error {
	tableFormatter, err := newTableFormatter(shellFormat, os.Stdout)
	if err != nil {
		return err
	}

	sess, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Attach(&session.TableView{Formatter: tableFormatter}); err != nil {
		return err
	}
	if shellSVG != "" {
		if err := sess.Attach(session.NewFileGraphView(shellSVG, cfg.LayoutOptions(), log)); err != nil {
			return err
		}
		log.Info("writing diagram", "path", shellSVG)
	}

	return shell.New(log, sess, os.Stdin, os.Stdout).Run(cmd.Context())
}
