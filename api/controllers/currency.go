package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/velocityparts/storefront/api/middleware"
	"github.com/velocityparts/storefront/api/responses"
	"github.com/velocityparts/storefront/internal/currency"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/logger"
	"github.com/velocityparts/storefront/pkg/types"
)

type selectCountryPayload struct {
	CountryCode string `json:"country_code"`
}

// CurrencyCountries lists the countries the storefront can price in.
func CurrencyCountries(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "currency service unavailable"))
			return
		}

		countries, err := svc.Countries(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, countries)
	}
}

// CurrencyRates returns conversion rates for a base currency.
func CurrencyRates(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "currency service unavailable"))
			return
		}

		rates, err := svc.Rates(ctx, chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rates)
	}
}

// CurrencyConvert converts an amount between currencies.
func CurrencyConvert(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "currency service unavailable"))
			return
		}

		var input types.ConvertInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		result, err := svc.Convert(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CurrencyCountryGet returns the session's selected country.
func CurrencyCountryGet(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "currency service unavailable"))
			return
		}

		sessionID := ""
		if sess := middleware.SessionFrom(ctx); sess != nil {
			sessionID = sess.ID()
		}
		code, err := svc.SelectedCountry(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"country_code": code})
	}
}

// CurrencyCountrySelect persists the session's country choice.
func CurrencyCountrySelect(svc currency.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "currency service unavailable"))
			return
		}

		sess := middleware.SessionFrom(ctx)
		if sess == nil || sess.ID() == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to save a country preference"))
			return
		}

		var payload selectCountryPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payload"))
			return
		}

		if err := svc.SelectCountry(ctx, sess.ID(), strings.TrimSpace(payload.CountryCode)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"saved": true})
	}
}
