package backend

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

// GetWishlist fetches the session's wishlist entries.
func (c *Client) GetWishlist(ctx context.Context, token string) ([]types.WishlistItem, error) {
	var items []types.WishlistItem
	if err := c.call(ctx, "get_wishlist", http.MethodGet, "/wishlist", token, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist adds one product to the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, token, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	payload := struct {
		ProductID string `json:"product_id"`
	}{ProductID: productID}
	return c.call(ctx, "add_to_wishlist", http.MethodPost, "/wishlist/add", token, payload, nil)
}

// RemoveFromWishlist drops one product from the wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, token, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.call(ctx, "remove_from_wishlist", http.MethodDelete,
		"/wishlist/remove/"+url.PathEscape(productID), token, nil, nil)
}
