package cartstore

import (
	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/pkg/enums"
	"github.com/velocityparts/storefront/pkg/types"
)

// LegacyCartData is the historical positional call shape for setting cart
// state: raw product IDs plus pre-computed aggregates. Normalize converts it
// into the canonical payload at the boundary so the core update path only ever
// sees one input shape.
type LegacyCartData struct {
	ProductIDs  []string
	TotalItems  int
	TotalAmount decimal.Decimal
	CartType    enums.CartType
}

// Normalize synthesizes an equivalent cart payload. Each product becomes a
// single-quantity line carrying the declared type; the declared aggregates ride
// in the summary, which the totals computation prefers over local sums.
func (l LegacyCartData) Normalize() *types.Cart {
	cartType := l.CartType
	if cartType == "" {
		if len(l.ProductIDs) == 0 {
			cartType = enums.CartTypeEmpty
		} else {
			cartType = enums.CartTypeRegular
		}
	}

	items := make([]types.CartItem, 0, len(l.ProductIDs))
	seen := make(map[string]struct{}, len(l.ProductIDs))
	for _, id := range l.ProductIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		item := types.CartItem{ProductID: id, CartQuantity: 1}
		if cartType == enums.CartTypeBulk || cartType == enums.CartTypeRegular {
			item.Type = cartType
		}
		items = append(items, item)
	}

	return &types.Cart{
		Items: items,
		Summary: &types.CartSummary{
			TotalItems:  l.TotalItems,
			TotalAmount: l.TotalAmount,
			CartType:    cartType,
		},
	}
}
