// Package orchestrator drives the storefront's optimistic mutation protocol:
// every cart or wishlist mutation captures a snapshot, edits the local store,
// calls the backend, and on failure restores the snapshot and surfaces a coded
// error. Successful mutations invalidate the bootstrap cache and trigger a
// background resync so the authoritative state flows back in.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/internal/backend"
	"github.com/velocityparts/storefront/internal/bootstrap"
	"github.com/velocityparts/storefront/internal/cartstore"
	"github.com/velocityparts/storefront/internal/session"
	"github.com/velocityparts/storefront/internal/wishliststore"
	"github.com/velocityparts/storefront/pkg/enums"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/metrics"
	"github.com/velocityparts/storefront/pkg/types"
)

const defaultDebounce = 500 * time.Millisecond

type cartAPI interface {
	GetCart(ctx context.Context, token string) (*types.Cart, error)
	AddToCart(ctx context.Context, token string, input backend.AddToCartInput) error
	UpdateCartItem(ctx context.Context, token, cartItemID string, quantity int) error
	RemoveFromCart(ctx context.Context, token, cartItemID string) error
	ClearCart(ctx context.Context, token string) error
}

type wishlistAPI interface {
	GetWishlist(ctx context.Context, token string) ([]types.WishlistItem, error)
	AddToWishlist(ctx context.Context, token, productID string) error
	RemoveFromWishlist(ctx context.Context, token, productID string) error
}

type checkoutAPI interface {
	CreateOrder(ctx context.Context, token string, input types.CreateOrderInput) (*types.Order, error)
	GetBulkPricing(ctx context.Context, token, sku string) ([]types.BulkPricingTier, error)
	ValidatePromoCode(ctx context.Context, token, code string, orderAmount decimal.Decimal) (*types.PromoValidation, error)
}

// Service exposes the storefront operations the HTTP surface drives.
type Service interface {
	BootstrapCart(ctx context.Context) (*types.Cart, error)
	BootstrapWishlist(ctx context.Context) ([]types.WishlistItem, error)
	SyncCart(ctx context.Context) enums.SyncOutcome

	AddToCart(ctx context.Context, productID string, quantity int) error
	AddBulkToCart(ctx context.Context, input BulkAddInput) error
	UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error
	RemoveFromCart(ctx context.Context, cartItemID, productID string) error
	ClearCart(ctx context.Context) error

	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, productID string) error

	Checkout(ctx context.Context, input types.CreateOrderInput) (*types.Order, error)
	BulkPricing(ctx context.Context, sku string, quantity int) (*types.BulkPricingTier, error)

	Close()
}

type service struct {
	cartAPI     cartAPI
	wishlistAPI wishlistAPI
	checkoutAPI checkoutAPI

	sess     *session.Session
	cart     *cartstore.Store
	wishlist *wishliststore.Store

	cartBoot *bootstrap.Cache[*types.Cart]
	wishBoot *bootstrap.Cache[[]types.WishlistItem]

	debounce *debouncer
	validate *validator.Validate
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
}

// Deps wires the orchestrator's collaborators.
type Deps struct {
	CartAPI     cartAPI
	WishlistAPI wishlistAPI
	CheckoutAPI checkoutAPI
	Session     *session.Session
	Cart        *cartstore.Store
	Wishlist    *wishliststore.Store
	Logger      *logger.Logger
	Metrics     *metrics.StorefrontMetrics
	Debounce    time.Duration
}

// NewService builds an orchestrator over the provided stack.
func NewService(deps Deps) (Service, error) {
	if deps.CartAPI == nil {
		return nil, fmt.Errorf("cart api required")
	}
	if deps.WishlistAPI == nil {
		return nil, fmt.Errorf("wishlist api required")
	}
	if deps.CheckoutAPI == nil {
		return nil, fmt.Errorf("checkout api required")
	}
	if deps.Session == nil {
		return nil, fmt.Errorf("session required")
	}
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if deps.Wishlist == nil {
		return nil, fmt.Errorf("wishlist store required")
	}
	if deps.Debounce <= 0 {
		deps.Debounce = defaultDebounce
	}

	s := &service{
		cartAPI:     deps.CartAPI,
		wishlistAPI: deps.WishlistAPI,
		checkoutAPI: deps.CheckoutAPI,
		sess:        deps.Session,
		cart:        deps.Cart,
		wishlist:    deps.Wishlist,
		debounce:    newDebouncer(deps.Debounce),
		validate:    validator.New(),
		logg:        deps.Logger,
		metrics:     deps.Metrics,
	}

	cartBoot, err := bootstrap.New(func(ctx context.Context, token string) (*types.Cart, error) {
		cart, err := s.cartAPI.GetCart(ctx, token)
		if err != nil {
			return nil, err
		}
		s.cart.SetCartData(ctx, cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	wishBoot, err := bootstrap.New(func(ctx context.Context, token string) ([]types.WishlistItem, error) {
		items, err := s.wishlistAPI.GetWishlist(ctx, token)
		if err != nil {
			return nil, err
		}
		s.wishlist.SetProductIDs(ctx, items)
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	s.cartBoot = cartBoot
	s.wishBoot = wishBoot
	return s, nil
}

// BootstrapCart loads the cart once per token; concurrent callers share a
// single fetch and later callers get the memoized result until a mutation
// invalidates it.
func (s *service) BootstrapCart(ctx context.Context) (*types.Cart, error) {
	cart, err := s.cartBoot.Do(ctx, s.sess.Token())
	if err != nil {
		return nil, s.handleAuthExpiry(ctx, err)
	}
	return cart, nil
}

// BootstrapWishlist is the wishlist counterpart of BootstrapCart.
func (s *service) BootstrapWishlist(ctx context.Context) ([]types.WishlistItem, error) {
	items, err := s.wishBoot.Do(ctx, s.sess.Token())
	if err != nil {
		return nil, s.handleAuthExpiry(ctx, err)
	}
	return items, nil
}

// SyncCart runs a throttled reconciliation against the backend.
func (s *service) SyncCart(ctx context.Context) enums.SyncOutcome {
	return s.cart.SyncFromAPI(ctx, s.sess.Token())
}

// Close flushes pending debounced work. Call on shutdown.
func (s *service) Close() {
	s.debounce.Flush()
	s.debounce.Close()
}

func (s *service) token() (string, error) {
	token := s.sess.Token()
	if token == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to continue")
	}
	return token, nil
}

// finishMutation is the tail of the optimistic protocol shared by all cart
// mutations: reset the bootstrap memo and resync in the background so the
// authoritative totals replace the optimistic ones.
func (s *service) finishMutation(ctx context.Context, token string) {
	s.cartBoot.Reset()
	bg := context.WithoutCancel(ctx)
	go s.cart.SyncFromAPI(bg, token)
}

// rollback restores the pre-mutation snapshot. Safe to call more than once
// with the same snapshot.
func (s *service) rollback(ctx context.Context, resource string, state cartstore.State) {
	s.cart.Restore(ctx, state)
	s.metrics.IncRollback(resource)
}

// handleAuthExpiry clears the local session when the backend rejects the
// token, so the caller can route the user to login.
func (s *service) handleAuthExpiry(ctx context.Context, err error) error {
	if pkgerrors.IsAuthExpired(err) {
		s.sess.Clear(ctx)
		s.cartBoot.Reset()
		s.wishBoot.Reset()
	}
	return err
}
