package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the shared *sql.DB handle every repository is built on
type DB struct {
	*sql.DB
}

// NewDB opens and verifies a connection. The connection string comes from
// config: DB_CONN_STR directly, or assembled from the DB_* parts into
// "host=... port=... user=... password=... dbname=patrimonio sslmode=disable".
func NewDB(connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// A single-user patrimonial ledger needs a small pool
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
