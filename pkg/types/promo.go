package types

import "github.com/shopspring/decimal"

// PromoValidation is the backend's answer to POST /promo-codes/validate.
type PromoValidation struct {
	Code          string          `json:"code"`
	Valid         bool            `json:"valid"`
	DiscountType  string          `json:"discount_type,omitempty"` // percentage or fixed
	DiscountValue decimal.Decimal `json:"discount_value"`
	Message       string          `json:"message,omitempty"`
}
