package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/velocityparts/storefront/pkg/enums"
	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

// AddToCartInput is the POST /cart/add payload. The bulk fields are only set
// for negotiated lines, in which case Type must be bulk.
type AddToCartInput struct {
	ProductID string         `json:"product_id"`
	Quantity  int            `json:"quantity"`
	Type      enums.CartType `json:"type,omitempty"`

	RequestedPricePerUnit *decimal.Decimal `json:"requested_price_per_unit,omitempty"`
	OfferedPricePerUnit   *decimal.Decimal `json:"offered_price_per_unit,omitempty"`
	BulkMinQuantity       *int             `json:"bulk_min_quantity,omitempty"`
}

// GetCart fetches the authoritative cart for the session.
func (c *Client) GetCart(ctx context.Context, token string) (*types.Cart, error) {
	var cart types.Cart
	if err := c.call(ctx, "get_cart", http.MethodGet, "/cart", token, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart adds one product line, regular or bulk.
func (c *Client) AddToCart(ctx context.Context, token string, input AddToCartInput) error {
	if input.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return c.call(ctx, "add_to_cart", http.MethodPost, "/cart/add", token, input, nil)
}

// UpdateCartItem changes the quantity of an existing cart line.
func (c *Client) UpdateCartItem(ctx context.Context, token, cartItemID string, quantity int) error {
	if cartItemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	payload := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	return c.call(ctx, "update_cart_item", http.MethodPut,
		"/cart/update/"+url.PathEscape(cartItemID), token, payload, nil)
}

// RemoveFromCart deletes one cart line.
func (c *Client) RemoveFromCart(ctx context.Context, token, cartItemID string) error {
	if cartItemID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	return c.call(ctx, "remove_from_cart", http.MethodDelete,
		"/cart/remove/"+url.PathEscape(cartItemID), token, nil, nil)
}

// ClearCart drops every line in the session's cart.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.call(ctx, "clear_cart", http.MethodDelete, "/cart/clear", token, nil, nil)
}
