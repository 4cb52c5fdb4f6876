package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process DocumentStore used in tests and local
// development. Values round-trip through JSON so stored documents behave
// exactly like the Redis-backed store's.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Put implements DocumentStore
func (s *MemoryStore) Put(ctx context.Context, ownerID, doc string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[Key(ownerID, doc)] = raw
	return nil
}

// Get implements DocumentStore
func (s *MemoryStore) Get(ctx context.Context, ownerID, doc string, out interface{}) error {
	s.mu.RLock()
	raw, ok := s.docs[Key(ownerID, doc)]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

// Exists implements DocumentStore
func (s *MemoryStore) Exists(ctx context.Context, ownerID, doc string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[Key(ownerID, doc)]
	return ok, nil
}
