package handshake

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
)

// fallbackKey is the well-known artifact key used when persisting the
// handoff through a credstore backend.
const fallbackKey = "oauth_fallback"

// FallbackStore holds the best-effort handoff written by the callback window
// for a client that may have stopped listening.
type FallbackStore interface {
	// Write replaces the stored payload
	Write(ctx context.Context, payload *FallbackPayload) error

	// Read returns the stored payload, or nil when there is none
	Read(ctx context.Context) (*FallbackPayload, error)

	// Clear deletes the stored payload; clearing an empty store is a no-op
	Clear(ctx context.Context) error
}

// MemoryFallback is an in-process FallbackStore.
type MemoryFallback struct {
	mu      sync.Mutex
	payload *FallbackPayload
}

func NewMemoryFallback() *MemoryFallback {
	return &MemoryFallback{}
}

func (m *MemoryFallback) Write(ctx context.Context, payload *FallbackPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = payload
	return nil
}

func (m *MemoryFallback) Read(ctx context.Context) (*FallbackPayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payload, nil
}

func (m *MemoryFallback) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = nil
	return nil
}

// StoreFallback adapts any credstore.Store into a FallbackStore, so the
// handoff survives in the same backend (file, redis) as the session when the
// writer and reader are different processes.
type StoreFallback struct {
	store credstore.Store
	ttl   time.Duration
}

// NewStoreFallback wraps a credstore backend. The TTL bounds how long an
// unclaimed handoff lingers; it is independent of the acceptance freshness
// check, which stays with the Coordinator.
func NewStoreFallback(store credstore.Store, ttl time.Duration) *StoreFallback {
	return &StoreFallback{store: store, ttl: ttl}
}

func (s *StoreFallback) Write(ctx context.Context, payload *FallbackPayload) error {
	if payload == nil {
		return s.store.Delete(ctx, fallbackKey)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.store.Set(ctx, fallbackKey, credstore.Artifact{
		Value:     string(data),
		ExpiresAt: time.Now().Add(s.ttl),
	})
}

func (s *StoreFallback) Read(ctx context.Context) (*FallbackPayload, error) {
	art, err := s.store.Get(ctx, fallbackKey)
	if err != nil {
		if errors.Is(err, credstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var payload FallbackPayload
	if err := json.Unmarshal([]byte(art.Value), &payload); err != nil {
		// A corrupted handoff is the same as no handoff.
		return nil, nil
	}
	return &payload, nil
}

func (s *StoreFallback) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, fallbackKey)
}

var (
	_ FallbackStore = (*MemoryFallback)(nil)
	_ FallbackStore = (*StoreFallback)(nil)
)
