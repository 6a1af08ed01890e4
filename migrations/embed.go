// Package migrations embeds the SQL migration files so they can be applied
// by the goose programmatic API at startup and in tests. The same files
// serve Postgres and SQLite, so they stick to the common SQL subset.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
