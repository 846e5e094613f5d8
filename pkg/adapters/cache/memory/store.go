// Package memory is a process-local dedup cache. Markers vanish on restart, which the
// engagement counters tolerate.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]time.Time // key -> expiry
	writes  int
	now     func() time.Time
}

const sweepEvery = 1024

func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock lets tests move time forward across TTL boundaries.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		entries: make(map[string]time.Time),
		now:     now,
	}
}

func (s *Store) SetNX(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.entries[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	if s.writes++; s.writes%sweepEvery == 0 {
		s.sweep(now)
	}
	return true, nil
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.entries[key]
	return ok && s.now().Before(exp), nil
}

// sweep drops expired markers. Called with mu held.
func (s *Store) sweep(now time.Time) {
	for k, exp := range s.entries {
		if !now.Before(exp) {
			delete(s.entries, k)
		}
	}
}

var _ ports.CacheStore = (*Store)(nil)
