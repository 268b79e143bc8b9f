package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

// GetCurrencyCountries lists the countries the storefront can price in.
func (c *Client) GetCurrencyCountries(ctx context.Context) ([]types.CurrencyCountry, error) {
	var countries []types.CurrencyCountry
	if err := c.call(ctx, "get_currency_countries", http.MethodGet, "/currency/countries", "", nil, &countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// GetCurrencyRates fetches conversion rates from the given base currency.
func (c *Client) GetCurrencyRates(ctx context.Context, code string) (*types.CurrencyRates, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency code is required")
	}
	var rates types.CurrencyRates
	path := "/currency/rates/" + url.PathEscape(code)
	if err := c.call(ctx, "get_currency_rates", http.MethodGet, path, "", nil, &rates); err != nil {
		return nil, err
	}
	return &rates, nil
}

// ConvertCurrency asks the backend to convert an amount between currencies.
func (c *Client) ConvertCurrency(ctx context.Context, input types.ConvertInput) (*types.ConvertResult, error) {
	if input.From == "" || input.To == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from and to currencies are required")
	}
	var result types.ConvertResult
	if err := c.call(ctx, "convert_currency", http.MethodPost, "/currency/convert", "", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
