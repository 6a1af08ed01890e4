package repo

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Driver names a RecordRepo backend.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
	DriverMemory   Driver = "memory"
)

// Drivers lists every supported backend.
var Drivers = []Driver{DriverFile, DriverSQLite, DriverPostgres, DriverS3, DriverMemory}

// sqliteFile is the database file name used inside Options.Path.
const sqliteFile = "tagcal.db"

// Options selects and configures a backend for Open.
type Options struct {
	Driver      Driver
	Path        string // directory for the file and sqlite drivers
	DatabaseURL string // postgres DSN
	S3          S3Config
}

// Open builds the RecordRepo selected by opts.Driver. The returned close
// function releases any connections and is always safe to call.
func Open(ctx context.Context, opts Options) (RecordRepo, func(), error) {
	noop := func() {}
	switch opts.Driver {
	case DriverFile, "":
		r, err := NewFileRecordRepo(opts.Path)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil

	case DriverSQLite:
		r, err := NewSQLiteRecordRepo(ctx, filepath.Join(opts.Path, sqliteFile))
		if err != nil {
			return nil, noop, err
		}
		return r, func() { _ = r.Close() }, nil

	case DriverPostgres:
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("repo.Open: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("repo.Open: ping database: %w", err)
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		if err := Migrate(ctx, goose.DialectPostgres, sqlDB); err != nil {
			_ = sqlDB.Close()
			pool.Close()
			return nil, noop, err
		}
		return NewPostgresRecordRepo(pool), func() {
			_ = sqlDB.Close()
			pool.Close()
		}, nil

	case DriverS3:
		r, err := NewS3RecordRepo(ctx, opts.S3)
		if err != nil {
			return nil, noop, err
		}
		return r, noop, nil

	case DriverMemory:
		return NewMemoryRecordRepo(), noop, nil

	default:
		return nil, noop, fmt.Errorf("repo.Open: unknown store driver %q", opts.Driver)
	}
}
