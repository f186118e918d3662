package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tordrt/fdgraph/internal/schema"
)

// SQLiteExtractor reads table keys from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite key extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts columns and keys for specified tables
// If tables is empty, extracts all tables in the database
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
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

func (e *SQLiteExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tableList []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tableList = append(tableList, tableName)
	}

	return tableList, rows.Err()
}

func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, pk, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns
	table.PrimaryKey = pk

	uniqueKeys, err := e.extractUniqueKeys(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique keys: %w", err)
	}
	table.UniqueKeys = uniqueKeys

	return table, nil
}

// extractColumns returns column names in declaration order and the primary
// key columns in key order
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]string, []string, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteSQLiteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []string
	pkByOrder := map[int]string{}

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pkOrder int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pkOrder); err != nil {
			return nil, nil, err
		}

		columns = append(columns, name)
		if pkOrder > 0 {
			pkByOrder[pkOrder] = name
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var pk []string
	for i := 1; i <= len(pkByOrder); i++ {
		pk = append(pk, pkByOrder[i])
	}
	return columns, pk, nil
}

// extractUniqueKeys returns unique indexes, including those SQLite creates
// for UNIQUE constraints, but not the primary key index
func (e *SQLiteExtractor) extractUniqueKeys(ctx context.Context, tableName string) ([]schema.UniqueKey, error) {
	query := fmt.Sprintf("PRAGMA index_list(%s)", quoteSQLiteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	type index struct{ name string }
	var unique []index
	for rows.Next() {
		var seq int
		var name, origin string
		var isUnique, partial int

		if err := rows.Scan(&seq, &name, &isUnique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		// origin "pk" is the primary key; partial indexes do not constrain every row
		if isUnique == 1 && origin != "pk" && partial == 0 {
			unique = append(unique, index{name: name})
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var keys []schema.UniqueKey
	for _, idx := range unique {
		columns, plain, err := e.indexColumns(ctx, idx.name)
		if err != nil {
			return nil, err
		}
		// (org, lower(email)) is unique, but org alone is not
		if plain && len(columns) > 0 {
			keys = append(keys, schema.UniqueKey{Name: idx.name, Columns: columns})
		}
	}
	return keys, nil
}

// indexColumns returns the index columns in key order. plain is false when
// any key part is an expression (cid -2) or the rowid (cid -1).
func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) (columns []string, plain bool, err error) {
	query := fmt.Sprintf("PRAGMA index_info(%s)", quoteSQLiteIdent(indexName))
	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	plain = true
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, false, err
		}
		if cid < 0 || !colName.Valid {
			plain = false
			continue
		}
		columns = append(columns, colName.String)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return columns, plain, nil
}

func quoteSQLiteIdent(name string) string {
	out := []rune{'"'}
	for _, r := range name {
		if r == '"' {
			out = append(out, '"')
		}
		out = append(out, r)
	}
	return string(append(out, '"'))
}
