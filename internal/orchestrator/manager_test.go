package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityparts/storefront/internal/backend"
	"github.com/velocityparts/storefront/internal/persist"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestManagerReusesSessionForSameToken(t *testing.T) {
	t.Parallel()

	client, err := backend.NewClient("http://backend.local")
	require.NoError(t, err)
	mgr, err := NewManager(ManagerDeps{Client: client, Snapshots: persist.NewMemoryStore()})
	require.NoError(t, err)
	t.Cleanup(mgr.Close)

	ctx := context.Background()
	svcA, sessA, err := mgr.ForToken(ctx, "token-1")
	require.NoError(t, err)
	svcB, sessB, err := mgr.ForToken(ctx, "token-1")
	require.NoError(t, err)
	svcC, _, err := mgr.ForToken(ctx, "token-2")
	require.NoError(t, err)

	assert.Same(t, svcA, svcB)
	assert.Same(t, sessA, sessB)
	assert.NotSame(t, svcA, svcC)
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	client, err := backend.NewClient("http://backend.local")
	require.NoError(t, err)
	clock := newManualClock()
	mgr, err := NewManager(ManagerDeps{
		Client:    client,
		Snapshots: persist.NewMemoryStore(),
		IdleTTL:   time.Hour,
		Now:       clock.Now,
	})
	require.NoError(t, err)
	t.Cleanup(mgr.Close)

	ctx := context.Background()
	svcA, _, err := mgr.ForToken(ctx, "token-a")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, _, err = mgr.ForToken(ctx, "token-b")
	require.NoError(t, err)

	mgr.mu.Lock()
	count := len(mgr.entries)
	mgr.mu.Unlock()
	assert.Equal(t, 1, count, "the idle entry must be gone")

	svcA2, _, err := mgr.ForToken(ctx, "token-a")
	require.NoError(t, err)
	assert.NotSame(t, svcA, svcA2, "an evicted session is rebuilt fresh")
}

func TestManagerTouchKeepsSessionAlive(t *testing.T) {
	t.Parallel()

	client, err := backend.NewClient("http://backend.local")
	require.NoError(t, err)
	clock := newManualClock()
	mgr, err := NewManager(ManagerDeps{
		Client:    client,
		Snapshots: persist.NewMemoryStore(),
		IdleTTL:   time.Hour,
		Now:       clock.Now,
	})
	require.NoError(t, err)
	t.Cleanup(mgr.Close)

	ctx := context.Background()
	svcA, _, err := mgr.ForToken(ctx, "token-a")
	require.NoError(t, err)

	clock.Advance(40 * time.Minute)
	_, _, err = mgr.ForToken(ctx, "token-a")
	require.NoError(t, err)

	clock.Advance(40 * time.Minute)
	svcA2, _, err := mgr.ForToken(ctx, "token-a")
	require.NoError(t, err)
	assert.Same(t, svcA, svcA2, "each lookup restarts the idle clock")
}

func TestManagerCapsDistinctTokens(t *testing.T) {
	t.Parallel()

	client, err := backend.NewClient("http://backend.local")
	require.NoError(t, err)
	mgr, err := NewManager(ManagerDeps{
		Client:      client,
		Snapshots:   persist.NewMemoryStore(),
		MaxSessions: 16,
	})
	require.NoError(t, err)
	t.Cleanup(mgr.Close)

	ctx := context.Background()
	for i := 0; i < 500; i++ {
		_, _, err := mgr.ForToken(ctx, fmt.Sprintf("opaque-token-%d", i))
		require.NoError(t, err)
	}

	mgr.mu.Lock()
	count := len(mgr.entries)
	mgr.mu.Unlock()
	assert.Equal(t, 16, count, "distinct tokens must not grow the map past the cap")
}

func TestManagerRequiresClientAndSnapshots(t *testing.T) {
	t.Parallel()

	_, err := NewManager(ManagerDeps{})
	require.Error(t, err)
}
