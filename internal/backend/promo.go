package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

// ValidatePromoCode checks a promo code against the backend for the given
// order amount.
func (c *Client) ValidatePromoCode(ctx context.Context, token, code string, orderAmount decimal.Decimal) (*types.PromoValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	payload := struct {
		Code        string          `json:"code"`
		OrderAmount decimal.Decimal `json:"order_amount"`
	}{Code: code, OrderAmount: orderAmount}

	var validation types.PromoValidation
	if err := c.call(ctx, "validate_promo_code", http.MethodPost, "/promo-codes/validate", token, payload, &validation); err != nil {
		return nil, err
	}
	return &validation, nil
}
