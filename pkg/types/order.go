package types

import "github.com/shopspring/decimal"

// OrderItem references a cart line at order-creation time. Bulk lines carry
// their negotiated pricing fields through to the order.
type OrderItem struct {
	CartID                string           `json:"cart_id"`
	RequestedPricePerUnit *decimal.Decimal `json:"requested_price_per_unit,omitempty"`
	OfferedPricePerUnit   *decimal.Decimal `json:"offered_price_per_unit,omitempty"`
	BulkMinQuantity       *int             `json:"bulk_min_quantity,omitempty"`
}

// CreateOrderInput is the POST /orders/create payload.
type CreateOrderInput struct {
	Items     []OrderItem `json:"items" validate:"required,min=1,dive"`
	PromoCode string      `json:"promo_code,omitempty"`
	Address   string      `json:"address" validate:"required"`
	City      string      `json:"city" validate:"required"`
	State     string      `json:"state" validate:"required"`
	ZipCode   string      `json:"zip_code" validate:"required"`
	Country   string      `json:"country" validate:"required"`
	Notes     string      `json:"notes,omitempty"`
}

// Order is the backend's order confirmation payload.
type Order struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"order_number,omitempty"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency,omitempty"`
}

// BulkPricingTier is one negotiated quantity break for a SKU.
type BulkPricingTier struct {
	MinQuantity  int             `json:"min_quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}
