package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/fdgraph/internal/schema"
)

// MySQLExtractor reads table keys from MySQL
type MySQLExtractor struct {
	client     *MySQLClient
	schemaName string
}

// NewMySQLExtractor creates a new MySQL key extractor
func NewMySQLExtractor(client *MySQLClient, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{
		client:     client,
		schemaName: schemaName,
	}
}

// ExtractSchema extracts columns and keys for specified tables
// If tables is empty, extracts all tables in the schema
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	tableNames, err := e.getTableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	var extractedTables []schema.Table
	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extractedTables = append(extractedTables, *table)
	}

	return &schema.Schema{Tables: extractedTables}, nil
}

func (e *MySQLExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

func (e *MySQLExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	keys, err := e.extractKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract keys: %w", err)
	}
	for _, k := range keys {
		if k.Name == "PRIMARY" {
			table.PrimaryKey = k.Columns
			continue
		}
		table.UniqueKeys = append(table.UniqueKeys, k)
	}

	return table, nil
}

func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}

// extractKeys returns every unique index; MySQL names the primary key PRIMARY.
// Indexes with a functional key part have a NULL column_name there and are
// skipped whole: their plain columns alone are not unique.
func (e *MySQLExtractor) extractKeys(ctx context.Context, tableName string) ([]schema.UniqueKey, error) {
	query := `
		SELECT
			s.index_name,
			GROUP_CONCAT(s.column_name ORDER BY s.seq_in_index) AS column_names
		FROM information_schema.statistics s
		WHERE s.table_schema = ?
			AND s.table_name = ?
			AND s.non_unique = 0
		GROUP BY s.index_name
		HAVING SUM(s.column_name IS NULL) = 0
		ORDER BY s.index_name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []schema.UniqueKey
	for rows.Next() {
		var key schema.UniqueKey
		var columnNames string

		if err := rows.Scan(&key.Name, &columnNames); err != nil {
			return nil, err
		}

		key.Columns = strings.Split(columnNames, ",")
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
