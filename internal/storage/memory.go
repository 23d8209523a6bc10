// ABOUTME: In-memory blob store
// ABOUTME: Used by tests and dry runs; nothing survives the process

package storage

import "sync"

// MemoryStore implements BlobStore with a map.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// SetErr, when non-nil, is returned by Set. Lets tests simulate write failures.
	SetErr error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob under key.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.blobs[key] = append([]byte(nil), value...)
	return nil
}

// Clear drops every key.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[string][]byte)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
