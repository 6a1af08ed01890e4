package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the pure Go "sqlite" driver

	"github.com/pkordes/tagcal/internal/domain"
)

// SQLiteRecordRepo stores records in the app_state table of a SQLite file.
type SQLiteRecordRepo struct {
	db *sql.DB
}

// NewSQLiteRecordRepo opens (creating if needed) the database at path and
// applies pending migrations.
func NewSQLiteRecordRepo(ctx context.Context, path string) (*SQLiteRecordRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("repo.NewSQLiteRecordRepo: create dirs: %w", err)
	}
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.NewSQLiteRecordRepo: open: %w", err)
	}
	// A single connection keeps writes serialised on the one file.
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(ctx, goose.DialectSQLite3, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("repo.NewSQLiteRecordRepo: %w", err)
	}
	return &SQLiteRecordRepo{db: sqlDB}, nil
}

// Get returns the payload stored under key.
func (r *SQLiteRecordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT payload FROM app_state WHERE state_key = ?`

	var payload string
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repo.SQLiteRecordRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.SQLiteRecordRepo.Get: %w", err)
	}
	return []byte(payload), nil
}

// Put upserts the payload for key.
func (r *SQLiteRecordRepo) Put(ctx context.Context, key string, data []byte) error {
	const q = `
		INSERT INTO app_state (state_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (state_key) DO UPDATE
		SET payload = excluded.payload,
		    updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, q, key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("repo.SQLiteRecordRepo.Put: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRecordRepo) Close() error {
	return r.db.Close()
}
