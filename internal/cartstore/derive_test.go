package cartstore

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/velocityparts/storefront/pkg/enums"
	"github.com/velocityparts/storefront/pkg/types"
)

func regularItem(productID string, qty int, price int64) types.CartItem {
	return types.CartItem{
		CartID:       "ci-" + productID,
		ProductID:    productID,
		CartQuantity: qty,
		ProductPrice: decimal.NewFromInt(price),
	}
}

func bulkItem(productID string, qty int, offered int64) types.CartItem {
	price := decimal.NewFromInt(offered)
	return types.CartItem{
		CartID:              "ci-" + productID,
		ProductID:           productID,
		CartQuantity:        qty,
		Type:                enums.CartTypeBulk,
		ProductPrice:        decimal.NewFromInt(offered + 100),
		OfferedPricePerUnit: &price,
	}
}

func TestDeriveCartType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		items     []types.CartItem
		declared  enums.CartType
		want      enums.CartType
		wantMixed bool
	}{
		{
			name:  "no items means empty",
			items: nil,
			want:  enums.CartTypeEmpty,
		},
		{
			name:  "all regular",
			items: []types.CartItem{regularItem("p1", 1, 100), regularItem("p2", 2, 50)},
			want:  enums.CartTypeRegular,
		},
		{
			name:  "all bulk",
			items: []types.CartItem{bulkItem("p1", 10, 450), bulkItem("p2", 20, 300)},
			want:  enums.CartTypeBulk,
		},
		{
			name:  "untyped items default to regular",
			items: []types.CartItem{{ProductID: "p1", CartQuantity: 1}},
			want:  enums.CartTypeRegular,
		},
		{
			name:      "mixed falls back to declared type",
			items:     []types.CartItem{regularItem("p1", 1, 100), bulkItem("p2", 5, 450)},
			declared:  enums.CartTypeBulk,
			want:      enums.CartTypeBulk,
			wantMixed: true,
		},
		{
			name:      "mixed without declared type defaults regular",
			items:     []types.CartItem{regularItem("p1", 1, 100), bulkItem("p2", 5, 450)},
			want:      enums.CartTypeRegular,
			wantMixed: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, mixed := DeriveCartType(tc.items, tc.declared)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantMixed, mixed)
		})
	}
}

func TestComputeTotalsPrefersPositiveSummary(t *testing.T) {
	t.Parallel()

	items := []types.CartItem{regularItem("p1", 2, 100)}
	summary := &types.CartSummary{TotalItems: 5, TotalAmount: decimal.NewFromInt(999)}

	totalItems, totalAmount := ComputeTotals(items, summary)
	assert.Equal(t, 5, totalItems)
	assert.True(t, totalAmount.Equal(decimal.NewFromInt(999)))
}

func TestComputeTotalsFallsBackToLocalSums(t *testing.T) {
	t.Parallel()

	// One bulk line at offered 450 x 3 with no server summary: 1350.
	items := []types.CartItem{bulkItem("p1", 3, 450)}

	totalItems, totalAmount := ComputeTotals(items, nil)
	assert.Equal(t, 3, totalItems)
	assert.True(t, totalAmount.Equal(decimal.NewFromInt(1350)), "got %s", totalAmount)

	// A zero-valued summary must not shadow the local computation.
	totalItems, totalAmount = ComputeTotals(items, &types.CartSummary{})
	assert.Equal(t, 3, totalItems)
	assert.True(t, totalAmount.Equal(decimal.NewFromInt(1350)))
}

func TestBulkUnitPricePreferenceOrder(t *testing.T) {
	t.Parallel()

	offered := decimal.NewFromInt(450)
	cartOffered := decimal.NewFromInt(460)
	requested := decimal.NewFromInt(470)

	item := types.CartItem{
		ProductID:               "p1",
		CartQuantity:            1,
		Type:                    enums.CartTypeBulk,
		ProductPrice:            decimal.NewFromInt(500),
		OfferedPricePerUnit:     &offered,
		CartOfferedPricePerUnit: &cartOffered,
		RequestedPricePerUnit:   &requested,
	}
	assert.True(t, item.UnitPrice().Equal(offered))

	item.OfferedPricePerUnit = nil
	assert.True(t, item.UnitPrice().Equal(cartOffered))

	item.CartOfferedPricePerUnit = nil
	assert.True(t, item.UnitPrice().Equal(requested))

	item.RequestedPricePerUnit = nil
	assert.True(t, item.UnitPrice().Equal(decimal.NewFromInt(500)))
}

func TestDedupeProductIDs(t *testing.T) {
	t.Parallel()

	items := []types.CartItem{
		regularItem("p1", 1, 100),
		regularItem("p1", 2, 100),
		regularItem("p2", 1, 50),
		{CartQuantity: 1}, // no product id
	}
	ids := DedupeProductIDs(items)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "p1")
	assert.Contains(t, ids, "p2")
}
