// Package promo validates promo codes against the backend and applies the
// resulting discount to order amounts.
package promo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type validatorAPI interface {
	ValidatePromoCode(ctx context.Context, token, code string, orderAmount decimal.Decimal) (*types.PromoValidation, error)
}

// Service validates promo codes for an order amount.
type Service interface {
	Validate(ctx context.Context, token, code string, orderAmount decimal.Decimal) (*types.PromoValidation, error)
}

type service struct {
	api validatorAPI
}

// NewService builds a promo service.
func NewService(api validatorAPI) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("promo api required")
	}
	return &service{api: api}, nil
}

func (s *service) Validate(ctx context.Context, token, code string, orderAmount decimal.Decimal) (*types.PromoValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if orderAmount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must not be negative")
	}
	validation, err := s.api.ValidatePromoCode(ctx, token, code, orderAmount)
	if err != nil {
		return nil, err
	}
	if validation.Valid {
		if err := checkDiscount(*validation); err != nil {
			return nil, err
		}
	}
	return validation, nil
}

// ApplyDiscount returns the amount after the validated discount, floored at
// zero so a fixed discount never produces a negative total.
func ApplyDiscount(amount decimal.Decimal, validation types.PromoValidation) (decimal.Decimal, error) {
	if !validation.Valid {
		return amount, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not valid")
	}
	if err := checkDiscount(validation); err != nil {
		return amount, err
	}

	var discounted decimal.Decimal
	switch validation.DiscountType {
	case DiscountTypePercentage:
		factor := decimal.NewFromInt(1).Sub(validation.DiscountValue.Div(decimal.NewFromInt(100)))
		discounted = amount.Mul(factor)
	case DiscountTypeFixed:
		discounted = amount.Sub(validation.DiscountValue)
	}
	if discounted.IsNegative() {
		return decimal.Zero, nil
	}
	return discounted.Round(2), nil
}

func checkDiscount(validation types.PromoValidation) error {
	switch validation.DiscountType {
	case DiscountTypePercentage:
		if validation.DiscountValue.IsNegative() || validation.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount out of range")
		}
	case DiscountTypeFixed:
		if validation.DiscountValue.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed discount must not be negative")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	return nil
}
