package tokenstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the simplest conforming Store: a mutex-guarded map with
// lazy expiry. It is the dev-mode default and the reference behavior the
// Redis driver is tested against. Records don't survive a restart, which
// only means everyone re-authenticates — acceptable for development.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	value     string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]memoryRecord)}
}

func (s *MemoryStore) Put(_ context.Context, username, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[username] = memoryRecord{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, username string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[username]
	if !ok {
		return "", ErrNotFound
	}
	if !time.Now().Before(rec.expiresAt) {
		delete(s.records, username)
		return "", ErrNotFound
	}
	return rec.value, nil
}

func (s *MemoryStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, username)
	return nil
}
