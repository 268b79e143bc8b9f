package wishliststore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velocityparts/storefront/internal/persist"
	"github.com/velocityparts/storefront/pkg/types"
)

func TestMembershipLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New(ctx, Options{Session: "sess-1"})

	assert.False(t, store.Contains("p1"))

	store.AddProductID(ctx, "p1")
	store.AddProductID(ctx, "p2")
	store.AddProductID(ctx, "p1") // idempotent
	assert.True(t, store.Contains("p1"))
	assert.Equal(t, []string{"p1", "p2"}, store.ProductIDs())

	store.RemoveProductID(ctx, "p1")
	assert.False(t, store.Contains("p1"))

	store.Clear(ctx)
	assert.Empty(t, store.ProductIDs())
}

func TestSetProductIDsFromServerItems(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New(ctx, Options{Session: "sess-1"})
	store.AddProductID(ctx, "stale")

	store.SetProductIDs(ctx, []types.WishlistItem{
		{ID: "w1", ProductID: "p1"},
		{ID: "w2", ProductID: "p2"},
		{ID: "w3"}, // missing product id is skipped
	})

	assert.Equal(t, []string{"p1", "p2"}, store.ProductIDs())
	assert.False(t, store.Contains("stale"))
}

func TestSnapshotRestoreRollsBackOptimisticEdit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New(ctx, Options{Session: "sess-1"})
	store.AddProductID(ctx, "p1")

	before := store.Snapshot()
	store.AddProductID(ctx, "p2")
	store.Restore(ctx, before)

	assert.Equal(t, []string{"p1"}, store.ProductIDs())
}

func TestPersistenceAcrossInstances(t *testing.T) {
	t.Parallel()

	snapshots := persist.NewMemoryStore()
	ctx := context.Background()

	store := New(ctx, Options{Session: "sess-7", Snapshots: snapshots})
	store.AddProductID(ctx, "p1")

	reborn := New(ctx, Options{Session: "sess-7", Snapshots: snapshots})
	assert.True(t, reborn.Contains("p1"))

	stranger := New(ctx, Options{Session: "sess-8", Snapshots: snapshots})
	assert.False(t, stranger.Contains("p1"))
}
