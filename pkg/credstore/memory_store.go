package credstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store using in-memory storage. State is lost on
// process exit and never shared across processes; last writer wins.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]Artifact
}

// NewMemoryStore creates a new in-memory artifact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artifacts: make(map[string]Artifact),
	}
}

// Set writes an artifact, replacing any previous value under the key.
func (m *MemoryStore) Set(ctx context.Context, key string, art Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.artifacts[key] = art
	return nil
}

// Get retrieves an artifact by key.
func (m *MemoryStore) Get(ctx context.Context, key string) (Artifact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	art, ok := m.artifacts[key]
	if !ok {
		return Artifact{}, ErrNotFound
	}
	return art, nil
}

// Delete removes an artifact.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.artifacts, key)
	return nil
}

// Close releases store resources.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.artifacts = make(map[string]Artifact)
	return nil
}

var _ Store = (*MemoryStore)(nil)
