package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/velocityparts/storefront/pkg/errors"
	"github.com/velocityparts/storefront/pkg/types"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestGetCartDecodesEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/cart", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "ok",
			"data": map[string]any{
				"items": []map[string]any{
					{
						"cart_id":       "ci-1",
						"product_id":    "p-1",
						"cart_quantity": 2,
						"type":          "bulk",
						"product_price": 500,
						"offered_price_per_unit": 450,
					},
				},
				"summary": map[string]any{"totalItems": 2, "totalAmount": 900, "cartType": "bulk"},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	cart, err := client.GetCart(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.True(t, item.IsBulk())
	assert.True(t, item.UnitPrice().Equal(decimal.NewFromInt(450)))
	require.NotNil(t, cart.Summary)
	assert.Equal(t, 2, cart.Summary.TotalItems)
}

func TestCallTranslates401ToAuthExpired(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.GetCart(context.Background(), "stale-token")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsAuthExpired(err), "401 must map to AUTH_EXPIRED, got %v", err)
}

func TestCallTranslates429ToRateLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.GetCart(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimited(err))
}

func TestCallSurfacesGenericHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("insufficient stock"))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = client.AddToCart(context.Background(), "tok", AddToCartInput{ProductID: "p-1", Quantity: 3})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	assert.Contains(t, typed.Message(), "HTTP 422")
	assert.Contains(t, typed.Message(), "insufficient stock")
}

func TestAddToCartValidatesInput(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://backend.invalid")
	require.NoError(t, err)

	err = client.AddToCart(context.Background(), "tok", AddToCartInput{Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	err = client.AddToCart(context.Background(), "tok", AddToCartInput{ProductID: "p-1"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddToCartSendsBulkFields(t *testing.T) {
	t.Parallel()

	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cart/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	requested := decimal.NewFromInt(400)
	offered := decimal.NewFromInt(450)
	minQty := 10
	err = client.AddToCart(context.Background(), "tok", AddToCartInput{
		ProductID:             "p-9",
		Quantity:              12,
		Type:                  "bulk",
		RequestedPricePerUnit: &requested,
		OfferedPricePerUnit:   &offered,
		BulkMinQuantity:       &minQty,
	})
	require.NoError(t, err)

	assert.Equal(t, "bulk", received["type"])
	assert.Equal(t, "450", received["offered_price_per_unit"])
	assert.Equal(t, float64(10), received["bulk_min_quantity"])
}

func TestRemoveFromWishlistEscapesProductID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/wishlist/remove/p%201", r.URL.EscapedPath())
		_ = json.NewEncoder(w).Encode(map[string]any{"status": true})
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.RemoveFromWishlist(context.Background(), "tok", "p 1"))
}

func TestCreateOrderRequiresItems(t *testing.T) {
	t.Parallel()

	client, err := NewClient("http://backend.invalid")
	require.NoError(t, err)

	_, err = client.CreateOrder(context.Background(), "tok", types.CreateOrderInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
