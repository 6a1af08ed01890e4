package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkordes/tagcal/internal/domain"
)

const (
	fileSuffix   = ".json"
	backupSuffix = ".bak"
	tmpSuffix    = ".tmp"
	filePerm     = 0o600
)

// FileRecordRepo stores each record as <dir>/<key>.json. The previous
// version of a record is kept next to it as <key>.json.bak.
type FileRecordRepo struct {
	dir string
}

// NewFileRecordRepo creates dir if needed and returns a repo rooted there.
func NewFileRecordRepo(dir string) (*FileRecordRepo, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("repo.NewFileRecordRepo: %w", err)
	}
	return &FileRecordRepo{dir: dir}, nil
}

func (r *FileRecordRepo) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: invalid record key %q", domain.ErrValidation, key)
	}
	return filepath.Join(r.dir, key+fileSuffix), nil
}

// Get reads the record file for key.
func (r *FileRecordRepo) Get(_ context.Context, key string) ([]byte, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, fmt.Errorf("repo.FileRecordRepo.Get: %w", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("repo.FileRecordRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.FileRecordRepo.Get: %w", err)
	}
	return data, nil
}

// Put writes data to a temp file, moves the current record to its backup
// and renames the temp file into place.
func (r *FileRecordRepo) Put(_ context.Context, key string, data []byte) error {
	p, err := r.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileRecordRepo.Put: %w", err)
	}

	tmp := p + tmpSuffix
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("repo.FileRecordRepo.Put: write temp: %w", err)
	}

	if _, err := os.Stat(p); err == nil {
		if err := os.Rename(p, p+backupSuffix); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("repo.FileRecordRepo.Put: backup: %w", err)
		}
	}

	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("repo.FileRecordRepo.Put: rename: %w", err)
	}
	return nil
}
