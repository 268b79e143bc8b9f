package orchestrator

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

func shippingInput() types.CreateOrderInput {
	return types.CreateOrderInput{
		Address: "1200 Speedway Blvd",
		City:    "Charlotte",
		State:   "NC",
		ZipCode: "28202",
		Country: "US",
	}
}

func TestCheckoutBuildsOrderFromCartLines(t *testing.T) {
	t.Parallel()

	api := &stubBackend{cart: &types.Cart{Items: []types.CartItem{
		bulkCartLine("prod-1", 450, "3"),
		regularCartLine("prod-2", 2, "19.99"),
	}}}
	rig := newTestRig(t, api)

	order, err := rig.svc.Checkout(context.Background(), shippingInput())
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)

	require.Len(t, api.orderInputs, 1)
	items := api.orderInputs[0].Items
	require.Len(t, items, 2)

	assert.Equal(t, "line-prod-1", items[0].CartID)
	require.NotNil(t, items[0].OfferedPricePerUnit)
	assert.True(t, items[0].OfferedPricePerUnit.Equal(decimal.RequireFromString("3")))
	require.NotNil(t, items[0].BulkMinQuantity)

	// The regular line carries no negotiated pricing.
	assert.Equal(t, "line-prod-2", items[1].CartID)
	assert.Nil(t, items[1].OfferedPricePerUnit)
	assert.Nil(t, items[1].BulkMinQuantity)

	// The local cart resets once the order is placed.
	assert.Empty(t, rig.cart.ProductIDs())
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t, &stubBackend{})
	_, err := rig.svc.Checkout(context.Background(), shippingInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCheckoutRejectsMissingShippingFields(t *testing.T) {
	t.Parallel()

	api := &stubBackend{cart: &types.Cart{Items: []types.CartItem{regularCartLine("prod-1", 1, "10")}}}
	rig := newTestRig(t, api)

	input := shippingInput()
	input.ZipCode = ""
	_, err := rig.svc.Checkout(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.orderInputs)
}

func TestCheckoutRejectsInvalidPromo(t *testing.T) {
	t.Parallel()

	api := &stubBackend{
		cart:  &types.Cart{Items: []types.CartItem{regularCartLine("prod-1", 1, "10")}},
		promo: &types.PromoValidation{Valid: false},
	}
	rig := newTestRig(t, api)

	input := shippingInput()
	input.PromoCode = "EXPIRED10"
	_, err := rig.svc.Checkout(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.orderInputs)
}

func TestCheckoutFlushesPendingQuantityUpdates(t *testing.T) {
	t.Parallel()

	api := &stubBackend{cart: &types.Cart{Items: []types.CartItem{regularCartLine("prod-1", 1, "10")}}}
	rig := newTestRig(t, api)
	ctx := context.Background()

	require.NoError(t, rig.svc.UpdateQuantity(ctx, "line-prod-1", 6))
	_, err := rig.svc.Checkout(ctx, shippingInput())
	require.NoError(t, err)

	calls := rig.api.quantityCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, qtyCall{cartItemID: "line-prod-1", quantity: 6}, calls[0])
}

func TestSelectBulkTier(t *testing.T) {
	t.Parallel()

	tiers := []types.BulkPricingTier{
		{MinQuantity: 10, PricePerUnit: decimal.RequireFromString("9.00")},
		{MinQuantity: 20, PricePerUnit: decimal.RequireFromString("8.00")},
	}

	if res := selectBulkTier(12, tiers); res == nil || res.MinQuantity != 10 {
		t.Fatalf("expected 10+ tier, got %#v", res)
	}
	if res := selectBulkTier(4, tiers); res != nil {
		t.Fatalf("expected no tier, got %#v", res)
	}
	if res := selectBulkTier(25, tiers); res == nil || res.MinQuantity != 20 {
		t.Fatalf("expected 20+ tier, got %#v", res)
	}
}

func TestBulkPricingSelectsApplicableTier(t *testing.T) {
	t.Parallel()

	api := &stubBackend{tiers: []types.BulkPricingTier{
		{MinQuantity: 100, PricePerUnit: decimal.RequireFromString("4.50")},
		{MinQuantity: 250, PricePerUnit: decimal.RequireFromString("4.00")},
	}}
	rig := newTestRig(t, api)

	tier, err := rig.svc.BulkPricing(context.Background(), "SKU-1", 300)
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, 250, tier.MinQuantity)

	tier, err = rig.svc.BulkPricing(context.Background(), "SKU-1", 50)
	require.NoError(t, err)
	assert.Nil(t, tier)
}
