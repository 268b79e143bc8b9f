package cartstore

import (
	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/pkg/enums"
	"github.com/velocityparts/storefront/pkg/types"
)

// DeriveCartType classifies the item list by scanning actual items rather than
// trusting the server-declared type. It returns mixed=true when both pricing
// models appear in one list, a state the add-time guard is supposed to make
// impossible; callers must flag it loudly instead of silently defaulting.
func DeriveCartType(items []types.CartItem, declared enums.CartType) (derived enums.CartType, mixed bool) {
	if len(items) == 0 {
		return enums.CartTypeEmpty, false
	}

	var hasBulk, hasRegular bool
	for _, item := range items {
		if item.IsBulk() {
			hasBulk = true
		} else {
			hasRegular = true
		}
	}

	switch {
	case hasBulk && !hasRegular:
		return enums.CartTypeBulk, false
	case hasRegular && !hasBulk:
		return enums.CartTypeRegular, false
	}

	// Mixed list. Fall back to the server-declared type when it is usable.
	if declared == enums.CartTypeBulk || declared == enums.CartTypeRegular {
		return declared, true
	}
	return enums.CartTypeRegular, true
}

// ComputeTotals prefers positive server-declared aggregates and computes the
// rest locally from the item list.
func ComputeTotals(items []types.CartItem, summary *types.CartSummary) (totalItems int, totalAmount decimal.Decimal) {
	for _, item := range items {
		totalItems += item.CartQuantity
		totalAmount = totalAmount.Add(item.LineTotal())
	}
	if summary != nil {
		if summary.TotalItems > 0 {
			totalItems = summary.TotalItems
		}
		if summary.TotalAmount.IsPositive() {
			totalAmount = summary.TotalAmount
		}
	}
	return totalItems, totalAmount
}

// DedupeProductIDs returns the unique product IDs across the item list.
func DedupeProductIDs(items []types.CartItem) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			ids[item.ProductID] = struct{}{}
		}
	}
	return ids
}
