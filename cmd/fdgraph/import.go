package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/fdgraph"
)

var (
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	tables        string
	excludeTables string
	schemaName    string
	outputDir     string
	importFormat  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Derive dependencies from database keys",
	Long: `Reads the primary and unique keys of every table from PostgreSQL, MySQL or
SQLite. Each key determines the remaining columns of its table. The derived
dependencies are validated like typed input and written to --output-dir as
one table file and one SVG diagram per table.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	importCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	importCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	importCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	importCmd.Flags().StringVarP(&excludeTables, "exclude", "x", "", "Tables to skip (comma-separated)")
	importCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the DSN database for MySQL)")
	importCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory (required)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "markdown", "Table format: text or markdown")
	_ = importCmd.MarkFlagRequired("output-dir")
}

func runImport(cmd *cobra.Command, _ []string) error {
	databaseURL, err := buildDatabaseURL(dbURL, mysqlURL, sqlitePath)
	if err != nil {
		return err
	}
	if importFormat != "text" && importFormat != "markdown" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'markdown')", importFormat)
	}

	imported, err := fdgraph.ImportDependencies(cmd.Context(), databaseURL, &fdgraph.Options{
		Tables:             parseTableList(tables),
		ExcludeTables:      parseTableList(excludeTables),
		SchemaName:         schemaName,
		MaxAttributeLength: cfg.MaxAttributeLength,
		Logger:             log,
	})
	if err != nil {
		return fmt.Errorf("failed to import dependencies: %w", err)
	}

	layoutOpts := cfg.LayoutOptions()
	if err := fdgraph.Render(imported, &fdgraph.OutputOptions{
		OutputDir: outputDir,
		Format:    importFormat,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Layout:    &layoutOpts,
	}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	var total, rejected int
	for _, t := range imported {
		total += len(t.FDs)
		rejected += len(t.Rejected)
	}
	log.Info("import complete", "tables", len(imported), "dependencies", total, "rejected", rejected, "output_dir", outputDir)
	if rejected > 0 {
		log.Warn("some key dependencies were rejected; raise --max-attr-len for long column names")
	}
	return nil
}

// buildDatabaseURL turns exactly one of the connection flags into a URL
// the library understands
func buildDatabaseURL(pgURL, mysqlDSN, sqliteFile string) (string, error) {
	dbCount := 0
	for _, v := range []string{pgURL, mysqlDSN, sqliteFile} {
		if v != "" {
			dbCount++
		}
	}
	if dbCount == 0 {
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case sqliteFile != "":
		return "sqlite://" + sqliteFile, nil
	case mysqlDSN != "":
		if strings.HasPrefix(mysqlDSN, "mysql://") {
			return mysqlDSN, nil
		}
		return "mysql://" + mysqlDSN, nil
	default:
		return pgURL, nil
	}
}
