package db

import (
	"context"

	"github.com/tordrt/fdgraph/internal/schema"
)

// KeyExtractor reads table columns and keys from a database
type KeyExtractor interface {
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

var (
	_ KeyExtractor = (*Extractor)(nil)
	_ KeyExtractor = (*MySQLExtractor)(nil)
	_ KeyExtractor = (*SQLiteExtractor)(nil)
)
