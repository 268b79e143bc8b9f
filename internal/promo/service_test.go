package promo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

type stubValidator struct {
	result *types.PromoValidation
	err    error
}

func (s *stubValidator) ValidatePromoCode(ctx context.Context, token, code string, orderAmount decimal.Decimal) (*types.PromoValidation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestValidateRejectsBlankCode(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubValidator{})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "token", "   ", decimal.NewFromInt(100))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestValidateRejectsMalformedDiscount(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubValidator{result: &types.PromoValidation{
		Code:          "BROKEN",
		Valid:         true,
		DiscountType:  "percentage",
		DiscountValue: decimal.NewFromInt(150),
	}})
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "token", "BROKEN", decimal.NewFromInt(100))
	require.Error(t, err)
}

func TestApplyDiscount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		amount     string
		validation types.PromoValidation
		want       string
	}{
		{
			name:   "percentage",
			amount: "200",
			validation: types.PromoValidation{
				Valid:         true,
				DiscountType:  DiscountTypePercentage,
				DiscountValue: decimal.NewFromInt(10),
			},
			want: "180",
		},
		{
			name:   "fixed",
			amount: "49.99",
			validation: types.PromoValidation{
				Valid:         true,
				DiscountType:  DiscountTypeFixed,
				DiscountValue: decimal.NewFromInt(5),
			},
			want: "44.99",
		},
		{
			name:   "fixed exceeding total floors at zero",
			amount: "3",
			validation: types.PromoValidation{
				Valid:         true,
				DiscountType:  DiscountTypeFixed,
				DiscountValue: decimal.NewFromInt(10),
			},
			want: "0",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ApplyDiscount(decimal.RequireFromString(tc.amount), tc.validation)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestApplyDiscountRejectsInvalidValidation(t *testing.T) {
	t.Parallel()

	amount := decimal.NewFromInt(100)
	got, err := ApplyDiscount(amount, types.PromoValidation{Valid: false})
	require.Error(t, err)
	assert.True(t, got.Equal(amount))

	_, err = ApplyDiscount(amount, types.PromoValidation{Valid: true, DiscountType: "bogo"})
	require.Error(t, err)
}
