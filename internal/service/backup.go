package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/metrics"
)

// BackupService writes JSON exports into a directory, one file per day.
type BackupService struct {
	export  *ExportService
	dir     string
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewBackupService constructs a BackupService writing into dir.
func NewBackupService(export *ExportService, dir string, log *slog.Logger, m *metrics.Metrics) *BackupService {
	if log == nil {
		log = slog.Default()
	}
	return &BackupService{export: export, dir: dir, log: log, metrics: m}
}

// Run writes calendario_<date>.json into the backup directory, replacing an
// earlier backup from the same day, and returns its path.
func (b *BackupService) Run(ctx context.Context) (string, error) {
	path, err := b.write(ctx)
	b.metrics.BackupDone(err)
	if err != nil {
		b.log.Error("backup failed", "dir", b.dir, "error", err)
		return "", fmt.Errorf("service.BackupService.Run: %w", err)
	}
	b.log.Info("backup written", "path", path)
	return path, nil
}

func (b *BackupService) write(ctx context.Context) (string, error) {
	if err := os.MkdirAll(b.dir, 0o750); err != nil {
		return "", err
	}
	doc := b.export.Document(ctx)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(b.dir, domain.ExportFilename(doc.ExportDate, string(FormatJSON)))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}

// StartBackups runs b on the standard five-field cron schedule spec until
// the returned stop function is called. stop waits for a running backup.
func StartBackups(spec string, b *BackupService) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		_, _ = b.Run(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("service.StartBackups: %w: invalid cron spec %q: %v", domain.ErrValidation, spec, err)
	}
	c.Start()
	b.log.Info("scheduled backups", "spec", spec, "dir", b.dir)
	return func() { <-c.Stop().Done() }, nil
}
