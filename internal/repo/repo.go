// Package repo persists the calendar record. Every backend is a small
// key-value store holding one encoded document per key; the service layer
// decides what the document contains.
package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/tagcal/migrations"
)

// RecordRepo stores opaque records by key.
type RecordRepo interface {
	// Get returns the record stored under key.
	// Returns domain.ErrNotFound if nothing has been saved under key yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the record stored under key.
	Put(ctx context.Context, key string, data []byte) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Migrate applies every pending migration in migrations.FS to sqlDB.
func Migrate(ctx context.Context, dialect goose.Dialect, sqlDB *sql.DB) error {
	provider, err := goose.NewProvider(dialect, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("repo.Migrate: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("repo.Migrate: up: %w", err)
	}
	return nil
}
