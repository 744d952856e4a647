// Package cache is the shared request cache: a key-addressed store of
// upstream responses with mutation-driven invalidation. All reads of a given
// key go through one Service instance, so concurrent readers share a single
// in-flight fetch and a stale fetch can never overwrite a newer value.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Service is an explicit cache instance, created at startup and injected into
// handlers and pollers. It is cleared on sign-out, never torn down otherwise.
type Service struct {
	store *gocache.Cache

	mu       sync.Mutex
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// New creates a cache whose entries expire after defaultTTL.
func New(defaultTTL, cleanupInterval time.Duration) *Service {
	return &Service{
		store:    gocache.New(defaultTTL, cleanupInterval),
		inflight: make(map[string]*call),
	}
}

// Key builds a cache key from a resource path and filter parameters.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// Get returns the cached value for key, or runs fetch to populate it.
// Concurrent calls for the same key share one fetch. Fetch errors are
// returned to every waiter and nothing is cached.
func (s *Service) Get(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := s.store.Get(key); ok {
		return v, nil
	}

	s.mu.Lock()
	if c, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.done:
			return c.val, c.err
		}
	}
	c := &call{done: make(chan struct{})}
	s.inflight[key] = c
	s.mu.Unlock()

	c.val, c.err = fetch(ctx)
	if c.err == nil {
		s.store.Set(key, c.val, gocache.DefaultExpiration)
	}

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(c.done)

	return c.val, c.err
}

// Set stores a value directly. The pollers use this to refresh views without
// going through Get.
func (s *Service) Set(key string, val any) {
	s.store.Set(key, val, gocache.DefaultExpiration)
}

// Invalidate marks keys stale after a successful mutation. The next read
// re-fetches. Callers must only invalidate after observing the mutation's
// success response.
func (s *Service) Invalidate(keys ...string) {
	for _, k := range keys {
		s.store.Delete(k)
	}
}

// InvalidatePrefix drops every key with the given prefix. Used for keyed
// families like per-room readings.
func (s *Service) InvalidatePrefix(prefix string) {
	for k := range s.store.Items() {
		if strings.HasPrefix(k, prefix) {
			s.store.Delete(k)
		}
	}
}

// Clear drops everything. Called on sign-out.
func (s *Service) Clear() {
	s.store.Flush()
}

// Fetch is a typed wrapper over Service.Get.
func Fetch[T any](ctx context.Context, s *Service, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
