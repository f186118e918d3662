package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/mattn/go-sqlite3"
)

const applicationName = "fdgraph"

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if _, ok := cfg.RuntimeParams["application_name"]; !ok {
		cfg.RuntimeParams["application_name"] = applicationName
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL client
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}

// ParseDatabaseName returns the database named in a MySQL DSN
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("no database name in connection string")
	}
	return cfg.DBName, nil
}

// SQLiteClient manages a read-only connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens path read-only; a missing file is an error rather
// than a new empty database
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", sqliteReadOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}

func sqliteReadOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Opaque: path, RawQuery: "mode=ro"}
	return u.String()
}
