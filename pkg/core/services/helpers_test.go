package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/linkfolio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
)

var dbSeq atomic.Int64

func newTestRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	dbURL := fmt.Sprintf("file:services_%d?mode=memory&cache=shared", dbSeq.Add(1))
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createProfile(t *testing.T, repo *sqlite.SQLiteRepository, email string) *domain.Profile {
	t.Helper()
	now := time.Now()
	p := &domain.Profile{Email: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// memBlobs records Put calls in memory.
type memBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func (b *memBlobs) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return "", b.err
	}
	if b.data == nil {
		b.data = make(map[string][]byte)
	}
	b.data[key] = data
	return key, nil
}

type countingNotifier struct {
	calls atomic.Int32
	err   error
}

func (n *countingNotifier) Welcome(context.Context, *domain.Profile) error {
	n.calls.Add(1)
	return n.err
}

// brokenCache fails every call, like an unreachable redis.
type brokenCache struct{}

func (brokenCache) SetNX(context.Context, string, time.Duration) (bool, error) {
	return false, fmt.Errorf("connection refused")
}

func (brokenCache) Exists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("connection refused")
}

// fakeClock is advanced by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
