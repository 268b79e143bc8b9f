package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/api/middleware"
	"github.com/velocityparts/storefront/api/responses"
	"github.com/velocityparts/storefront/internal/orchestrator"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/logger"
)

type addCartItemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type addBulkItemPayload struct {
	ProductID             string           `json:"product_id"`
	Quantity              int              `json:"quantity"`
	RequestedPricePerUnit decimal.Decimal  `json:"requested_price_per_unit"`
	OfferedPricePerUnit   *decimal.Decimal `json:"offered_price_per_unit,omitempty"`
	BulkMinQuantity       int              `json:"bulk_min_quantity,omitempty"`
}

type updateQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// logConflict tags the context with the offending product and warns when an
// add was refused for cart-type homogeneity; other errors pass through.
func logConflict(ctx context.Context, logg *logger.Logger, err error, productID string) context.Context {
	if logg == nil || !pkgerrors.IsCartConflict(err) {
		return ctx
	}
	ctx = logg.WithProductID(ctx, productID)
	logg.Warn(ctx, "cart.add_conflict")
	return ctx
}

func scopedService(ctx context.Context) (orchestrator.Service, error) {
	svc := middleware.ServiceFrom(ctx)
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session scope missing")
	}
	return svc, nil
}

// CartFetch returns the cart, served from the bootstrap memo when warm.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cart, err := svc.BootstrapCart(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// CartSync triggers a throttled reconciliation and reports the outcome.
func CartSync(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		outcome := svc.SyncCart(ctx)
		responses.WriteSuccess(w, map[string]string{"outcome": string(outcome)})
	}
}

// CartAddItem adds a regular line to the cart.
func CartAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		if err := svc.AddToCart(ctx, strings.TrimSpace(payload.ProductID), payload.Quantity); err != nil {
			ctx = logConflict(ctx, logg, err, payload.ProductID)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"added": true})
	}
}

// CartAddBulkItem adds a negotiated bulk line to the cart.
func CartAddBulkItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addBulkItemPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		if err := svc.AddBulkToCart(ctx, orchestrator.BulkAddInput{
			ProductID:             strings.TrimSpace(payload.ProductID),
			Quantity:              payload.Quantity,
			RequestedPricePerUnit: payload.RequestedPricePerUnit,
			OfferedPricePerUnit:   payload.OfferedPricePerUnit,
			BulkMinQuantity:       payload.BulkMinQuantity,
		}); err != nil {
			ctx = logConflict(ctx, logg, err, payload.ProductID)
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"added": true})
	}
}

// CartUpdateQuantity queues a debounced quantity change for one line.
func CartUpdateQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cartItemID := strings.TrimSpace(chi.URLParam(r, "cartItemId"))

		var payload updateQuantityPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		if err := svc.UpdateQuantity(ctx, cartItemID, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]bool{"queued": true})
	}
}

// CartRemoveItem removes one line from the cart.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cartItemID := strings.TrimSpace(chi.URLParam(r, "cartItemId"))
		productID := strings.TrimSpace(r.URL.Query().Get("product_id"))

		if err := svc.RemoveFromCart(ctx, cartItemID, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}

// CartClear wipes the cart.
func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		svc, err := scopedService(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ClearCart(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
