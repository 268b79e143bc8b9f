// Package cartstore holds the client-side cart cache: the set of product IDs
// believed to be in the cart, derived aggregates, and the homogeneity-typed
// cart classification. It is a derived cache, never authoritative; the backend
// wins every reconciliation.
package cartstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/internal/persist"
	"github.com/velocityparts/storefront/pkg/enums"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/metrics"
	"github.com/velocityparts/storefront/pkg/types"
)

const (
	snapshotName    = "cart"
	defaultThrottle = 1200 * time.Millisecond
)

// CartFetcher is the slice of the backend client the store needs for resyncs.
type CartFetcher interface {
	GetCart(ctx context.Context, token string) (*types.Cart, error)
}

// Options groups dependencies for the cart store.
type Options struct {
	Session   string
	Fetcher   CartFetcher
	Snapshots persist.SnapshotStore
	Logger    *logger.Logger
	Metrics   *metrics.StorefrontMetrics
	Throttle  time.Duration
	Now       func() time.Time
}

// Store is the single source of truth for cart UI state within a session.
type Store struct {
	mu        sync.Mutex
	session   string
	fetcher   CartFetcher
	snapshots persist.SnapshotStore
	logg      *logger.Logger
	metrics   *metrics.StorefrontMetrics
	throttle  time.Duration
	now       func() time.Time

	productIDs  map[string]struct{}
	totalItems  int
	totalAmount decimal.Decimal
	cartType    enums.CartType
	items       []types.CartItem

	// mutationEpoch tags local edits so a resync that raced with a newer
	// mutation can be discarded instead of clobbering it.
	mutationEpoch uint64
	lastSyncAt    time.Time
	syncFlight    *syncFlight
}

// State is a point-in-time copy of the store, used for optimistic rollback
// and for the persisted snapshot.
type State struct {
	ProductIDs  []string         `json:"product_ids"`
	TotalItems  int              `json:"total_items"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	CartType    enums.CartType   `json:"cart_type"`
	Items       []types.CartItem `json:"items,omitempty"`
}

// New builds a cart store, hydrating from a persisted snapshot when one exists.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart fetcher is required")
	}
	if opts.Throttle <= 0 {
		opts.Throttle = defaultThrottle
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		session:    opts.Session,
		fetcher:    opts.Fetcher,
		snapshots:  opts.Snapshots,
		logg:       opts.Logger,
		metrics:    opts.Metrics,
		throttle:   opts.Throttle,
		now:        opts.Now,
		productIDs: map[string]struct{}{},
		cartType:   enums.CartTypeEmpty,
	}
	s.hydrate(ctx)
	return s, nil
}

// SetCartData applies a full server cart payload, recomputing the product-ID
// set, the cart type, and the totals.
func (s *Store) SetCartData(ctx context.Context, cart *types.Cart) {
	if cart == nil {
		cart = &types.Cart{}
	}
	s.mu.Lock()
	s.applyCartLocked(ctx, cart)
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// ApplyLegacy accepts the historical positional shape and funnels it through
// the canonical path.
func (s *Store) ApplyLegacy(ctx context.Context, legacy LegacyCartData) {
	s.SetCartData(ctx, legacy.Normalize())
}

// AddProductID optimistically records a product as in-cart.
func (s *Store) AddProductID(ctx context.Context, productID string) {
	if productID == "" {
		return
	}
	s.mu.Lock()
	s.productIDs[productID] = struct{}{}
	if s.cartType == enums.CartTypeEmpty {
		s.cartType = enums.CartTypeRegular
	}
	s.mutationEpoch++
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// RemoveProductID optimistically drops a product; removing the last one
// returns the cart to the empty classification.
func (s *Store) RemoveProductID(ctx context.Context, productID string) {
	s.mu.Lock()
	delete(s.productIDs, productID)
	if len(s.productIDs) == 0 {
		s.cartType = enums.CartTypeEmpty
	}
	s.mutationEpoch++
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// IsInCart is the O(1) membership predicate backing product-card UI state.
func (s *Store) IsInCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.productIDs[productID]
	return ok
}

// CanAddBulkItems reports whether adding a bulk line cannot create a mixed
// cart: the cart is empty, already bulk, or holds no products.
func (s *Store) CanAddBulkItems() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartType == enums.CartTypeEmpty ||
		s.cartType == enums.CartTypeBulk ||
		len(s.productIDs) == 0
}

// CanAddRegularItems is the mirror predicate for regular-priced lines.
func (s *Store) CanAddRegularItems() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartType == enums.CartTypeEmpty ||
		s.cartType == enums.CartTypeRegular ||
		len(s.productIDs) == 0
}

// SetCartType overrides the classification directly. The bulk-order flow
// commits to a bulk cart before the server has confirmed the first line.
func (s *Store) SetCartType(ctx context.Context, cartType enums.CartType) {
	if !cartType.IsValid() {
		return
	}
	s.mu.Lock()
	s.cartType = cartType
	s.mutationEpoch++
	state := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, state)
}

// Clear resets every field to its empty value.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.productIDs = map[string]struct{}{}
	s.totalItems = 0
	s.totalAmount = decimal.Zero
	s.cartType = enums.CartTypeEmpty
	s.items = nil
	s.mutationEpoch++
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

// Restore puts a previously captured state back, rolling back an optimistic
// mutation whose backend call failed.
func (s *Store) Restore(ctx context.Context, state State) {
	s.mu.Lock()
	s.applyStateLocked(state)
	s.mutationEpoch++
	persisted := s.stateLocked()
	s.mu.Unlock()
	s.persistState(ctx, persisted)
}

// ProductIDs returns the deduplicated product IDs currently believed in-cart.
func (s *Store) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedIDsLocked(s.productIDs)
}

// TotalItems returns the aggregate item count.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItems
}

// TotalAmount returns the aggregate cart amount.
func (s *Store) TotalAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalAmount
}

// CartType returns the current homogeneity classification.
func (s *Store) CartType() enums.CartType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartType
}

// Items returns a copy of the last-known full item list.
func (s *Store) Items() []types.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]types.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Store) applyCartLocked(ctx context.Context, cart *types.Cart) {
	declared := enums.CartType("")
	if cart.Summary != nil {
		declared = cart.Summary.CartType
	}

	cartType, mixed := DeriveCartType(cart.Items, declared)
	if mixed && s.logg != nil {
		s.logg.Error(ctx, "cart.invariant_violation.mixed_types",
			pkgerrors.New(pkgerrors.CodeCartConflict, "cart items mix regular and bulk pricing"))
	}

	s.productIDs = DedupeProductIDs(cart.Items)
	s.totalItems, s.totalAmount = ComputeTotals(cart.Items, cart.Summary)
	s.cartType = cartType
	s.items = make([]types.CartItem, len(cart.Items))
	copy(s.items, cart.Items)
}

func (s *Store) applyStateLocked(state State) {
	s.productIDs = make(map[string]struct{}, len(state.ProductIDs))
	for _, id := range state.ProductIDs {
		s.productIDs[id] = struct{}{}
	}
	s.totalItems = state.TotalItems
	s.totalAmount = state.TotalAmount
	s.cartType = state.CartType
	if !s.cartType.IsValid() {
		s.cartType = enums.CartTypeEmpty
	}
	s.items = make([]types.CartItem, len(state.Items))
	copy(s.items, state.Items)
}

func (s *Store) stateLocked() State {
	items := make([]types.CartItem, len(s.items))
	copy(items, s.items)
	return State{
		ProductIDs:  sortedIDsLocked(s.productIDs),
		TotalItems:  s.totalItems,
		TotalAmount: s.totalAmount,
		CartType:    s.cartType,
		Items:       items,
	}
}

func (s *Store) hydrate(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	data, err := s.snapshots.Load(ctx, s.session, snapshotName)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.snapshot_load_failed")
		}
		return
	}
	if len(data) == 0 {
		return
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.snapshot_corrupt")
		}
		return
	}
	s.mu.Lock()
	s.applyStateLocked(state)
	s.mu.Unlock()
}

func (s *Store) persistState(ctx context.Context, state State) {
	if s.snapshots == nil {
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart.snapshot_marshal_failed", err)
		}
		return
	}
	if err := s.snapshots.Save(ctx, s.session, snapshotName, data); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "cart.snapshot_save_failed")
	}
}

func sortedIDsLocked(ids map[string]struct{}) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
