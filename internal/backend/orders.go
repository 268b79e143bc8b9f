package backend

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

// CreateOrder submits the checkout payload and returns the confirmed order.
func (c *Client) CreateOrder(ctx context.Context, token string, input types.CreateOrderInput) (*types.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	var order types.Order
	if err := c.call(ctx, "create_order", http.MethodPost, "/orders/create", token, input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetBulkPricing fetches the negotiated quantity breaks for a SKU.
func (c *Client) GetBulkPricing(ctx context.Context, token, sku string) ([]types.BulkPricingTier, error) {
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	var tiers []types.BulkPricingTier
	path := "/products/sku/" + url.PathEscape(sku) + "/bulk-pricing"
	if err := c.call(ctx, "get_bulk_pricing", http.MethodGet, path, token, nil, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}
