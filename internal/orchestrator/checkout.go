package orchestrator

import (
	"context"
	"strings"

	"github.com/velocityparts/storefront/pkg/enums"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

// Checkout turns the current cart into an order. Pending quantity changes are
// flushed first so the backend sees what the user sees. Order items are built
// from the synced cart lines; bulk lines carry their negotiated pricing.
func (s *service) Checkout(ctx context.Context, input types.CreateOrderInput) (*types.Order, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	s.debounce.Flush()

	cart, err := s.cartAPI.GetCart(ctx, token)
	if err != nil {
		return nil, s.handleAuthExpiry(ctx, err)
	}
	s.cart.SetCartData(ctx, cart)
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	input.Items = orderItemsFromCart(cart.Items)
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout details")
	}

	if code := strings.TrimSpace(input.PromoCode); code != "" {
		validation, err := s.checkoutAPI.ValidatePromoCode(ctx, token, code, s.cart.TotalAmount())
		if err != nil {
			return nil, s.handleAuthExpiry(ctx, err)
		}
		if !validation.Valid {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not valid for this order")
		}
	}

	order, err := s.checkoutAPI.CreateOrder(ctx, token, input)
	if err != nil {
		return nil, s.handleAuthExpiry(ctx, err)
	}

	s.cart.Clear(ctx)
	s.cartBoot.Reset()
	return order, nil
}

// BulkPricing picks the applicable quantity break for a SKU, the highest tier
// whose minimum the quantity meets. Nil when no tier applies.
func (s *service) BulkPricing(ctx context.Context, sku string, quantity int) (*types.BulkPricingTier, error) {
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	token, err := s.token()
	if err != nil {
		return nil, err
	}

	tiers, err := s.checkoutAPI.GetBulkPricing(ctx, token, sku)
	if err != nil {
		return nil, s.handleAuthExpiry(ctx, err)
	}
	return selectBulkTier(quantity, tiers), nil
}

func selectBulkTier(quantity int, tiers []types.BulkPricingTier) *types.BulkPricingTier {
	var selected *types.BulkPricingTier
	for _, tier := range tiers {
		if tier.MinQuantity <= quantity {
			if selected == nil || tier.MinQuantity > selected.MinQuantity {
				copy := tier
				selected = &copy
			}
		}
	}
	return selected
}

func orderItemsFromCart(items []types.CartItem) []types.OrderItem {
	out := make([]types.OrderItem, 0, len(items))
	for _, item := range items {
		orderItem := types.OrderItem{CartID: item.CartID}
		if item.EffectiveType() == enums.CartTypeBulk {
			orderItem.RequestedPricePerUnit = item.RequestedPricePerUnit
			orderItem.OfferedPricePerUnit = item.OfferedPricePerUnit
			orderItem.BulkMinQuantity = item.BulkMinQuantity
		}
		out = append(out, orderItem)
	}
	return out
}
