package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tagcal/internal/domain"
)

// pgRecordRepo is the Postgres implementation of RecordRepo.
type pgRecordRepo struct {
	db db
}

// NewPostgresRecordRepo constructs a RecordRepo backed by the app_state table.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresRecordRepo(db db) RecordRepo {
	return &pgRecordRepo{db: db}
}

// Get returns the payload stored under key.
func (r *pgRecordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
		SELECT payload
		FROM app_state
		WHERE state_key = @key`

	var payload string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.PostgresRecordRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.PostgresRecordRepo.Get: %w", err)
	}
	return []byte(payload), nil
}

// Put upserts the payload for key.
func (r *pgRecordRepo) Put(ctx context.Context, key string, data []byte) error {
	const q = `
		INSERT INTO app_state (state_key, payload, updated_at)
		VALUES (@key, @payload, @updated_at)
		ON CONFLICT (state_key) DO UPDATE
		SET payload = EXCLUDED.payload,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"key":        key,
		"payload":    string(data),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("repo.PostgresRecordRepo.Put: %w", err)
	}
	return nil
}
