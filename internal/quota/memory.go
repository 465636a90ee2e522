package quota

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: make(map[string]int)}
}

func (s *MemoryStore) Increment(_ context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[date]++
	return s.counts[date], nil
}

func (s *MemoryStore) Count(_ context.Context, date string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[date], nil
}

// Set overwrites the counter for a day.
func (s *MemoryStore) Set(date string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[date] = count
}
