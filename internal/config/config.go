// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/pkordes/tagcal/internal/repo"
)

// Config holds all configuration values for the server.
// Values are populated by Load from environment variables.
type Config struct {
	// Host and Port form the listen address. Defaults to 127.0.0.1:8080,
	// since the calendar is a single-user tool.
	Host string
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Store selects and configures the record backend (STORE_DRIVER and friends).
	Store repo.Options

	// StateKey is the key the calendar record is saved under.
	StateKey string

	// BackupCron is an optional five-field cron schedule for JSON backups
	// written to BackupDir.
	BackupCron string
	BackupDir  string

	// AuthUser and AuthPasswordHash enable basic auth when both are set.
	AuthUser         string
	AuthPasswordHash string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Addr returns the listen address.
func (c Config) Addr() string { return net.JoinHostPort(c.Host, c.Port) }

// AuthEnabled reports whether basic auth is configured.
func (c Config) AuthEnabled() bool { return c.AuthUser != "" }

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing every required variable that is not set and every
// value that does not parse.
func Load() (Config, error) {
	cfg := Config{
		Host:        getEnv("HOST", "127.0.0.1"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Store: repo.Options{
			Driver:      repo.Driver(strings.ToLower(getEnv("STORE_DRIVER", string(repo.DriverFile)))),
			Path:        getEnv("STORE_PATH", "./data"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			S3: repo.S3Config{
				Bucket:   os.Getenv("S3_BUCKET"),
				Region:   getEnv("S3_REGION", "us-east-1"),
				Endpoint: os.Getenv("S3_ENDPOINT"),
				// Static keys for MinIO and other non-AWS servers. When unset the
				// default AWS credential chain applies.
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			},
		},
		StateKey:         getEnv("STATE_KEY", "calendarData"),
		BackupCron:       os.Getenv("BACKUP_CRON"),
		BackupDir:        getEnv("BACKUP_DIR", "./backups"),
		AuthUser:         os.Getenv("AUTH_USER"),
		AuthPasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
	}

	var missing, invalid []string

	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		invalid = append(invalid, "LOG_LEVEL")
	}
	if p, err := strconv.Atoi(cfg.Port); err != nil || p < 1 || p > 65535 {
		invalid = append(invalid, "PORT")
	}

	if !slices.Contains(repo.Drivers, cfg.Store.Driver) {
		invalid = append(invalid, "STORE_DRIVER")
	}
	if cfg.Store.Driver == repo.DriverPostgres && cfg.Store.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.Store.Driver == repo.DriverS3 && cfg.Store.S3.Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if cfg.Store.S3.AccessKeyID != "" && cfg.Store.S3.SecretAccessKey == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	if cfg.Store.S3.AccessKeyID == "" && cfg.Store.S3.SecretAccessKey != "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if v := os.Getenv("S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, "S3_PATH_STYLE")
		}
		cfg.Store.S3.PathStyle = b
	}

	if cfg.BackupCron != "" {
		if _, err := cron.ParseStandard(cfg.BackupCron); err != nil {
			invalid = append(invalid, "BACKUP_CRON")
		}
	}

	if cfg.AuthUser != "" && cfg.AuthPasswordHash == "" {
		missing = append(missing, "AUTH_PASSWORD_HASH")
	}
	if cfg.AuthUser == "" && cfg.AuthPasswordHash != "" {
		missing = append(missing, "AUTH_USER")
	}

	cfg.MaxBodyBytes = 1 << 20
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			invalid = append(invalid, "MAX_BODY_BYTES")
		}
		cfg.MaxBodyBytes = n
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "required environment variables not set: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(invalid, ", "))
	}
	if len(problems) > 0 {
		return Config{}, fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return cfg, nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
