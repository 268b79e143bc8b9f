package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/api/middleware"
	"github.com/velocityparts/storefront/api/responses"
	"github.com/velocityparts/storefront/internal/promo"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/types"
)

type validatePromoPayload struct {
	Code        string          `json:"code"`
	OrderAmount decimal.Decimal `json:"order_amount"`
}

type promoValidationResult struct {
	*types.PromoValidation
	DiscountedTotal *decimal.Decimal `json:"discounted_total,omitempty"`
}

// PromoValidate checks a promo code against the backend for an order amount.
func PromoValidate(svc promo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promo service unavailable"))
			return
		}

		sess := middleware.SessionFrom(ctx)
		if sess == nil || sess.Token() == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use promo codes"))
			return
		}

		var payload validatePromoPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		validation, err := svc.Validate(ctx, sess.Token(), strings.TrimSpace(payload.Code), payload.OrderAmount)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result := promoValidationResult{PromoValidation: validation}
		if validation.Valid {
			discounted, err := promo.ApplyDiscount(payload.OrderAmount, *validation)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			result.DiscountedTotal = &discounted
		}
		responses.WriteSuccess(w, result)
	}
}
