package store

import (
	"context"
	"sync"

	"vidshare-site/videos"
)

// MemoryStore keeps records in a map. It backs the "memory" store
// backend and the test suites.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]videos.Record
}

var _ RecordStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]videos.Record)}
}

func (m *MemoryStore) Put(ctx context.Context, rec *videos.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*videos.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStore) UpdateFields(ctx context.Context, id string, fields map[string]any) (*videos.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := applyFields(&rec, fields); err != nil {
		return nil, err
	}
	rec.UpdatedAt = videos.Now()
	m.records[id] = rec
	return &rec, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]videos.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]videos.Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}
