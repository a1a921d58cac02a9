package store

import (
	"context"
	"sync"
)

// DefaultMemoryCapacity bounds a MemoryStore created with capacity <= 0.
const DefaultMemoryCapacity = 256

// MemoryStore keeps the most recent renders in memory. When full, the
// oldest record is evicted.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	records  map[string]*Record
	order    []string
}

// NewMemoryStore creates a store holding at most capacity records.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		records:  make(map[string]*Record, capacity),
	}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	cp := *rec
	cp.Data = append([]byte(nil), rec.Data...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[cp.ID]; !ok {
		s.order = append(s.order, cp.ID)
	}
	s.records[cp.ID] = &cp

	for len(s.order) > s.capacity {
		delete(s.records, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// Len returns the number of records held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
