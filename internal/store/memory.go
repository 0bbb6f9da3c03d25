package store

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process. Updates are serialized.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) read(key string) ([]byte, bool, error) {
	data, ok := s.records[key]
	return data, ok, nil
}

func (s *MemoryStore) Update(ctx context.Context, _ []string, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newBufferedTx(s.read, false)
	if err := fn(tx); err != nil {
		return err
	}
	for _, key := range tx.order {
		s.records[key] = tx.writes[key]
	}
	return nil
}

func (s *MemoryStore) View(ctx context.Context, _ []string, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(newBufferedTx(s.read, true))
}

func (s *MemoryStore) Close() error { return nil }
