package types

import (
	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/pkg/enums"
)

// CartItem is a server-shaped cart line, consumed as-is from the backend.
type CartItem struct {
	CartID       string `json:"cart_id"`
	ProductID    string `json:"product_id"`
	CartQuantity int    `json:"cart_quantity"`

	// The backend has historically sent the pricing model under either key;
	// absent means regular.
	Type     enums.CartType `json:"type,omitempty"`
	CartType enums.CartType `json:"cart_type,omitempty"`

	ProductPrice decimal.Decimal `json:"product_price"`

	// Bulk pricing fields, present only on negotiated lines. The offered price
	// occasionally arrives as a string under cart_offered_price_per_unit.
	RequestedPricePerUnit   *decimal.Decimal `json:"requested_price_per_unit,omitempty"`
	OfferedPricePerUnit     *decimal.Decimal `json:"offered_price_per_unit,omitempty"`
	CartOfferedPricePerUnit *decimal.Decimal `json:"cart_offered_price_per_unit,omitempty"`
	BulkMinQuantity         *int             `json:"bulk_min_quantity,omitempty"`

	ProductTitle       string `json:"product_title"`
	ProductDescription string `json:"product_description,omitempty"`
	ProductImage       string `json:"product_image,omitempty"`
	StockQuantity      int    `json:"stock_quantity"`
	SKU                string `json:"sku"`
	CategoryName       string `json:"category_name,omitempty"`
	BrandName          string `json:"brand_name,omitempty"`
}

// EffectiveType resolves the line's pricing model, defaulting to regular.
func (i CartItem) EffectiveType() enums.CartType {
	if i.Type == enums.CartTypeBulk || i.CartType == enums.CartTypeBulk {
		return enums.CartTypeBulk
	}
	return enums.CartTypeRegular
}

// IsBulk reports whether the line carries negotiated bulk pricing.
func (i CartItem) IsBulk() bool {
	return i.EffectiveType() == enums.CartTypeBulk
}

// UnitPrice resolves the effective per-unit price. Bulk lines prefer the
// offered price, then the string-typed offered price, then the requested
// price, then the underlying product price. Regular lines use the declared
// product price.
func (i CartItem) UnitPrice() decimal.Decimal {
	if !i.IsBulk() {
		return i.ProductPrice
	}
	for _, candidate := range []*decimal.Decimal{
		i.OfferedPricePerUnit,
		i.CartOfferedPricePerUnit,
		i.RequestedPricePerUnit,
	} {
		if candidate != nil && candidate.IsPositive() {
			return *candidate
		}
	}
	return i.ProductPrice
}

// LineTotal is the unit price multiplied by the line quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.CartQuantity)))
}

// CartSummary carries the server-computed aggregates for a cart.
type CartSummary struct {
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Currency    string          `json:"currency,omitempty"`
	CartType    enums.CartType  `json:"cartType,omitempty"`
}

// Cart is the authoritative payload returned by GET /cart.
type Cart struct {
	Items   []CartItem   `json:"items"`
	Summary *CartSummary `json:"summary,omitempty"`
}
