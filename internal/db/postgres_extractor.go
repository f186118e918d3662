package db

import (
	"context"
	"fmt"

	"github.com/tordrt/fdgraph/internal/schema"
)

// Extractor reads table keys from PostgreSQL
type Extractor struct {
	client *PostgresClient
	schema string
}

// NewExtractor creates a new PostgreSQL key extractor
func NewExtractor(client *PostgresClient, schemaName string) *Extractor {
	return &Extractor{
		client: client,
		schema: schemaName,
	}
}

// ExtractSchema extracts columns and keys for specified tables
// If tables is empty, extracts all tables in the schema
func (e *Extractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
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

func (e *Extractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema)
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

func (e *Extractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	pk, err := e.extractPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk

	uniqueKeys, err := e.extractUniqueKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique keys: %w", err)
	}
	table.UniqueKeys = uniqueKeys

	return table, nil
}

func (e *Extractor) extractColumns(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
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

func (e *Extractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = $1
			AND table_name = $2
			AND constraint_name IN (
				SELECT constraint_name
				FROM information_schema.table_constraints
				WHERE table_schema = $1
					AND table_name = $2
					AND constraint_type = 'PRIMARY KEY'
			)
		ORDER BY ordinal_position
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var colName string
		if err := rows.Scan(&colName); err != nil {
			return nil, err
		}
		pk = append(pk, colName)
	}

	return pk, rows.Err()
}

// extractUniqueKeys covers both UNIQUE constraints and standalone unique
// indexes; partial and expression indexes are ignored
func (e *Extractor) extractUniqueKeys(ctx context.Context, tableName string) ([]schema.UniqueKey, error) {
	query := `
		SELECT
			i.relname AS index_name,
			array_agg(a.attname ORDER BY array_position(ix.indkey, a.attnum)) AS column_names
		FROM pg_class t
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		JOIN pg_namespace n ON n.oid = t.relnamespace
		WHERE t.relkind = 'r'
			AND n.nspname = $1
			AND t.relname = $2
			AND ix.indisunique
			AND NOT ix.indisprimary
			AND ix.indpred IS NULL
			AND ix.indexprs IS NULL
		GROUP BY i.relname
		ORDER BY i.relname
	`

	rows, err := e.client.GetConnection().Query(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []schema.UniqueKey
	for rows.Next() {
		var key schema.UniqueKey
		if err := rows.Scan(&key.Name, &key.Columns); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
