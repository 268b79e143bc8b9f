package orchestrator

import (
	"context"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
)

// AddToWishlist follows the same optimistic protocol as cart mutations,
// without conflict logic: membership flips locally first.
func (s *service) AddToWishlist(ctx context.Context, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	snap := s.wishlist.Snapshot()
	s.wishlist.AddProductID(ctx, productID)

	if err := s.wishlistAPI.AddToWishlist(ctx, token, productID); err != nil {
		s.wishlist.Restore(ctx, snap)
		s.metrics.IncRollback("wishlist")
		return s.handleAuthExpiry(ctx, err)
	}

	s.finishWishlistMutation(ctx, token)
	return nil
}

// RemoveFromWishlist is the inverse of AddToWishlist.
func (s *service) RemoveFromWishlist(ctx context.Context, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	snap := s.wishlist.Snapshot()
	s.wishlist.RemoveProductID(ctx, productID)

	if err := s.wishlistAPI.RemoveFromWishlist(ctx, token, productID); err != nil {
		s.wishlist.Restore(ctx, snap)
		s.metrics.IncRollback("wishlist")
		return s.handleAuthExpiry(ctx, err)
	}

	s.finishWishlistMutation(ctx, token)
	return nil
}

func (s *service) finishWishlistMutation(ctx context.Context, token string) {
	s.wishBoot.Reset()
	bg := context.WithoutCancel(ctx)
	go func() {
		items, err := s.wishlistAPI.GetWishlist(bg, token)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(bg, "wishlist.resync_failed")
			}
			return
		}
		s.wishlist.SetProductIDs(bg, items)
	}()
}
