package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/tagcal/internal/domain"
)

// MemoryRecordRepo keeps records in process memory. Nothing survives a restart.
type MemoryRecordRepo struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryRecordRepo returns an empty in-memory repo.
func NewMemoryRecordRepo() *MemoryRecordRepo {
	return &MemoryRecordRepo{records: make(map[string][]byte)}
}

// Get returns a copy of the record stored under key.
func (r *MemoryRecordRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.records[key]
	if !ok {
		return nil, fmt.Errorf("repo.MemoryRecordRepo.Get: %w", domain.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data under key.
func (r *MemoryRecordRepo) Put(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[key] = append([]byte(nil), data...)
	return nil
}
