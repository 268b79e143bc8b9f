// Package currency handles storefront currency selection and conversion. The
// backend owns the rate tables; this layer caches the user's chosen country
// and converts displayed amounts with decimal math.
package currency

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/internal/persist"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

const selectionName = "currency_country"

// DefaultCountryCode applies until the user picks a country.
const DefaultCountryCode = "US"

type ratesAPI interface {
	GetCurrencyCountries(ctx context.Context) ([]types.CurrencyCountry, error)
	GetCurrencyRates(ctx context.Context, code string) (*types.CurrencyRates, error)
	ConvertCurrency(ctx context.Context, input types.ConvertInput) (*types.ConvertResult, error)
}

// Service exposes currency operations for the storefront.
type Service interface {
	Countries(ctx context.Context) ([]types.CurrencyCountry, error)
	Rates(ctx context.Context, currencyCode string) (*types.CurrencyRates, error)
	Convert(ctx context.Context, input types.ConvertInput) (*types.ConvertResult, error)
	SelectedCountry(ctx context.Context, sessionID string) (string, error)
	SelectCountry(ctx context.Context, sessionID, countryCode string) error
}

type service struct {
	api       ratesAPI
	snapshots persist.SnapshotStore
}

// NewService builds a currency service.
func NewService(api ratesAPI, snapshots persist.SnapshotStore) (Service, error) {
	if api == nil {
		return nil, fmt.Errorf("rates api required")
	}
	if snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &service{api: api, snapshots: snapshots}, nil
}

func (s *service) Countries(ctx context.Context) ([]types.CurrencyCountry, error) {
	return s.api.GetCurrencyCountries(ctx)
}

func (s *service) Rates(ctx context.Context, currencyCode string) (*types.CurrencyRates, error) {
	currencyCode = normalizeCode(currencyCode)
	if currencyCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency code is required")
	}
	return s.api.GetCurrencyRates(ctx, currencyCode)
}

func (s *service) Convert(ctx context.Context, input types.ConvertInput) (*types.ConvertResult, error) {
	input.From = normalizeCode(input.From)
	input.To = normalizeCode(input.To)
	if input.From == "" || input.To == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both currency codes are required")
	}
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	if input.From == input.To {
		return &types.ConvertResult{
			Amount:    input.Amount,
			Converted: input.Amount,
			From:      input.From,
			To:        input.To,
			Rate:      decimal.NewFromInt(1),
		}, nil
	}
	result, err := s.api.ConvertCurrency(ctx, input)
	if err != nil {
		return nil, err
	}
	// The displayed amount derives locally from the backend's rate so
	// rounding matches every other price on the page.
	result.Converted = ApplyRate(input.Amount, result.Rate)
	return result, nil
}

// SelectedCountry returns the persisted choice, falling back to the default.
func (s *service) SelectedCountry(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return DefaultCountryCode, nil
	}
	raw, err := s.snapshots.Load(ctx, sessionID, selectionName)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return DefaultCountryCode, nil
	}
	return string(raw), nil
}

func (s *service) SelectCountry(ctx context.Context, sessionID, countryCode string) error {
	countryCode = normalizeCode(countryCode)
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if countryCode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "country code is required")
	}
	return s.snapshots.Save(ctx, sessionID, selectionName, []byte(countryCode))
}

// ApplyRate converts an amount with a known rate, rounded to two places.
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
