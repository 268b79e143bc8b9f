// Package wishliststore mirrors the cart store's membership-tracking pattern
// for the wishlist: a persisted set of product IDs with optimistic add/remove,
// minus the cart's type-conflict machinery.
package wishliststore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/velocityparts/storefront/internal/persist"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/types"
)

const snapshotName = "wishlist"

// Options groups dependencies for the wishlist store.
type Options struct {
	Session   string
	Snapshots persist.SnapshotStore
	Logger    *logger.Logger
}

// Store tracks which products the session has wishlisted.
type Store struct {
	mu        sync.Mutex
	session   string
	snapshots persist.SnapshotStore
	logg      *logger.Logger

	productIDs map[string]struct{}
}

// State is a point-in-time copy used for rollback and persistence.
type State struct {
	ProductIDs []string `json:"product_ids"`
}

// New builds a wishlist store, hydrating from a persisted snapshot when one
// exists.
func New(ctx context.Context, opts Options) *Store {
	s := &Store{
		session:    opts.Session,
		snapshots:  opts.Snapshots,
		logg:       opts.Logger,
		productIDs: map[string]struct{}{},
	}
	s.hydrate(ctx)
	return s
}

// SetProductIDs replaces the membership set from authoritative wishlist items.
func (s *Store) SetProductIDs(ctx context.Context, items []types.WishlistItem) {
	s.mu.Lock()
	s.productIDs = make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			s.productIDs[item.ProductID] = struct{}{}
		}
	}
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// AddProductID optimistically marks a product as wishlisted.
func (s *Store) AddProductID(ctx context.Context, productID string) {
	if productID == "" {
		return
	}
	s.mu.Lock()
	s.productIDs[productID] = struct{}{}
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// RemoveProductID optimistically drops a product.
func (s *Store) RemoveProductID(ctx context.Context, productID string) {
	s.mu.Lock()
	delete(s.productIDs, productID)
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// Contains is the O(1) membership predicate.
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.productIDs[productID]
	return ok
}

// ProductIDs returns the wishlisted product IDs.
func (s *Store) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.productIDs))
	for id := range s.productIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clear empties the wishlist, used on logout.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.productIDs = map[string]struct{}{}
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// Snapshot captures current state for later rollback.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Restore rolls the store back to a previously captured state.
func (s *Store) Restore(ctx context.Context, state State) {
	s.mu.Lock()
	s.productIDs = make(map[string]struct{}, len(state.ProductIDs))
	for _, id := range state.ProductIDs {
		s.productIDs[id] = struct{}{}
	}
	persisted := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, persisted)
}

func (s *Store) stateLocked() State {
	out := make([]string, 0, len(s.productIDs))
	for id := range s.productIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return State{ProductIDs: out}
}

func (s *Store) hydrate(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(ctx, s.session, snapshotName)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "wishlist.snapshot_load_failed")
		}
		return
	}
	if len(data) == 0 {
		return
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "wishlist.snapshot_corrupt")
		}
		return
	}
	for _, id := range state.ProductIDs {
		s.productIDs[id] = struct{}{}
	}
}

func (s *Store) persistState(ctx context.Context, state State) {
	if s.snapshots == nil {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.session, snapshotName, data); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "wishlist.snapshot_save_failed")
	}
}
