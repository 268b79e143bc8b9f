package orchestrator

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/internal/backend"
	"github.com/velocityparts/storefront/pkg/enums"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
)

// BulkAddInput carries a negotiated bulk line.
type BulkAddInput struct {
	ProductID             string
	Quantity              int
	RequestedPricePerUnit decimal.Decimal
	OfferedPricePerUnit   *decimal.Decimal
	BulkMinQuantity       int
}

// AddToCart adds a regular-priced line. A cart already holding bulk lines
// rejects the add; the user has to clear it first.
func (s *service) AddToCart(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	if err := s.checkAddConflict(ctx, token, enums.CartTypeRegular); err != nil {
		return err
	}

	snap := s.cart.Snapshot()
	s.cart.AddProductID(ctx, productID)

	if err := s.cartAPI.AddToCart(ctx, token, backend.AddToCartInput{
		ProductID: productID,
		Quantity:  quantity,
	}); err != nil {
		s.rollback(ctx, "cart", snap)
		return s.handleAuthExpiry(ctx, err)
	}

	s.finishMutation(ctx, token)
	return nil
}

// AddBulkToCart adds a negotiated line and commits the cart to the bulk type.
func (s *service) AddBulkToCart(ctx context.Context, input BulkAddInput) error {
	if input.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.BulkMinQuantity > 0 && input.Quantity < input.BulkMinQuantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity below bulk minimum")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	if err := s.checkAddConflict(ctx, token, enums.CartTypeBulk); err != nil {
		return err
	}

	snap := s.cart.Snapshot()
	s.cart.AddProductID(ctx, input.ProductID)
	s.cart.SetCartType(ctx, enums.CartTypeBulk)

	apiInput := backend.AddToCartInput{
		ProductID:             input.ProductID,
		Quantity:              input.Quantity,
		Type:                  enums.CartTypeBulk,
		RequestedPricePerUnit: &input.RequestedPricePerUnit,
		OfferedPricePerUnit:   input.OfferedPricePerUnit,
	}
	if input.BulkMinQuantity > 0 {
		apiInput.BulkMinQuantity = &input.BulkMinQuantity
	}
	if err := s.cartAPI.AddToCart(ctx, token, apiInput); err != nil {
		s.rollback(ctx, "cart", snap)
		return s.handleAuthExpiry(ctx, err)
	}

	s.finishMutation(ctx, token)
	return nil
}

// UpdateQuantity coalesces rapid changes to the same line: only the latest
// quantity is sent once the debounce window elapses. Failures roll back and
// are logged; the next sync restores the authoritative state.
func (s *service) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error {
	if cartItemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	s.debounce.Schedule("cart_qty:"+cartItemID, func() {
		snap := s.cart.Snapshot()
		if err := s.cartAPI.UpdateCartItem(bg, token, cartItemID, quantity); err != nil {
			s.rollback(bg, "cart", snap)
			_ = s.handleAuthExpiry(bg, err)
			if s.logg != nil {
				s.logg.Error(bg, "cart.quantity_update_failed", err)
			}
			return
		}
		s.finishMutation(bg, token)
	})
	return nil
}

// RemoveFromCart removes one line. The product id drives the optimistic
// membership edit; the cart item id drives the remote call.
func (s *service) RemoveFromCart(ctx context.Context, cartItemID, productID string) error {
	if cartItemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	token, err := s.token()
	if err != nil {
		return err
	}

	snap := s.cart.Snapshot()
	if productID != "" {
		s.cart.RemoveProductID(ctx, productID)
	}

	if err := s.cartAPI.RemoveFromCart(ctx, token, cartItemID); err != nil {
		s.rollback(ctx, "cart", snap)
		return s.handleAuthExpiry(ctx, err)
	}

	s.finishMutation(ctx, token)
	return nil
}

// ClearCart wipes the whole cart, local first.
func (s *service) ClearCart(ctx context.Context) error {
	token, err := s.token()
	if err != nil {
		return err
	}

	snap := s.cart.Snapshot()
	s.cart.Clear(ctx)

	if err := s.cartAPI.ClearCart(ctx, token); err != nil {
		s.rollback(ctx, "cart", snap)
		return s.handleAuthExpiry(ctx, err)
	}

	s.finishMutation(ctx, token)
	return nil
}

// checkAddConflict enforces cart homogeneity before an add. The fresh fetch
// is the authority; when it fails the local store's view decides instead.
func (s *service) checkAddConflict(ctx context.Context, token string, adding enums.CartType) error {
	cart, err := s.cartAPI.GetCart(ctx, token)
	if err != nil {
		if pkgerrors.IsAuthExpired(err) {
			return s.handleAuthExpiry(ctx, err)
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.conflict_check_fetch_failed")
		}
		return s.checkAddConflictLocal(adding)
	}

	s.cart.SetCartData(ctx, cart)
	return s.checkAddConflictLocal(adding)
}

func (s *service) checkAddConflictLocal(adding enums.CartType) error {
	switch adding {
	case enums.CartTypeBulk:
		if !s.cart.CanAddBulkItems() {
			return pkgerrors.New(pkgerrors.CodeCartConflict, "cart conflict")
		}
	default:
		if !s.cart.CanAddRegularItems() {
			return pkgerrors.New(pkgerrors.CodeCartConflict, "cart conflict")
		}
	}
	return nil
}
