package types

import "github.com/shopspring/decimal"

// CurrencyCountry pairs a country with the currency the storefront can price in.
type CurrencyCountry struct {
	CountryCode  string `json:"country_code"`
	CountryName  string `json:"country_name"`
	CurrencyCode string `json:"currency_code"`
	Symbol       string `json:"symbol,omitempty"`
}

// CurrencyRates holds conversion rates from a base currency.
type CurrencyRates struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// ConvertInput is the POST /currency/convert payload.
type ConvertInput struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
}

// ConvertResult is the backend's conversion response.
type ConvertResult struct {
	Amount    decimal.Decimal `json:"amount"`
	Converted decimal.Decimal `json:"converted"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
}
