package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velocityparts/storefront/api/responses"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/types"
)

// Checkout places an order from the current cart.
func Checkout(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input types.CreateOrderInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		order, err := svc.Checkout(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// BulkPricing returns the applicable quantity break for a SKU.
func BulkPricing(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sku := strings.TrimSpace(chi.URLParam(r, "sku"))
		quantity := 1
		if raw := strings.TrimSpace(r.URL.Query().Get("quantity")); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil || value <= 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer"))
				return
			}
			quantity = value
		}

		tier, err := svc.BulkPricing(ctx, sku, quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, tier)
	}
}
