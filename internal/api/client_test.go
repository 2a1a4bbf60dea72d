package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

// plainDoer executes requests without retry or throttling; tests exercise the
// client's request building and response handling, not transport behavior.
type plainDoer struct{}

func (plainDoer) Do(_ context.Context, req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL, plainDoer{}, staticTokens(token), log)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "asha@example.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user":  map[string]string{"id": "u1", "name": "Asha", "email": req.Email},
		})
	}, "")

	token, user, err := client.Login(context.Background(), LoginRequest{
		Email:    "asha@example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "u1", user.ID)
}

func TestLogin_MissingToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"id": "u1"}})
	}, "")

	_, _, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "secret1"})
	assert.Error(t, err)
}

func TestLogin_BadCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "UNAUTHORIZED", "message": "invalid email or password"},
		})
	}, "")

	_, _, err := client.Login(context.Background(), LoginRequest{Email: "a@b.c", Password: "wrong1"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestBearerTokenAttached(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}, "tok-123")

	_, err := client.FetchCart(context.Background())
	require.NoError(t, err)
}

func TestFetchCart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "l1", "quantity": 2, "product": map[string]any{"product_id": "p1", "price": 10000}},
			},
		})
	}, "tok")

	items, err := client.FetchCart(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "l1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(10000), items[0].Product.Price)
}

func TestFetchCart_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "cart not found"},
		})
	}, "tok")

	_, err := client.FetchCart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFetchCart_BareStringError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "account disabled"})
	}, "tok")

	_, err := client.FetchCart(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestAddItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/items", r.URL.Path)

		var req AddItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1", req.ProductID)
		assert.Equal(t, 2, req.Quantity)
		assert.Equal(t, "p1", req.Product.ProductID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "l1", "quantity": 2, "product": map[string]any{"product_id": "p1", "price": 100}},
			},
		})
	}, "tok")

	items, err := client.AddItem(context.Background(), AddItemRequest{
		ProductID: "p1",
		Quantity:  2,
		Product:   domain.ProductSnapshot{ProductID: "p1", Price: 100},
	})

	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUpdateItemQuantity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/cart/items/l1", r.URL.Path)

		var req UpdateQuantityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.Quantity)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}, "tok")

	_, err := client.UpdateItemQuantity(context.Background(), "l1", 5)
	require.NoError(t, err)
}

func TestRemoveItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart/items/l1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
	}, "tok")

	items, err := client.RemoveItem(context.Background(), "l1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClearCart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/cart", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	require.NoError(t, client.ClearCart(context.Background()))
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []map[string]any{
				{"id": "p1", "name": "Basket", "price": 34900},
			},
		})
	}, "")

	products, err := client.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Basket", products[0].Name)
}

func TestPlaceOrder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{"id": "o1", "total": 69800, "status": "placed"},
		})
	}, "tok")

	order, err := client.PlaceOrder(context.Background(), PlaceOrderRequest{
		FullName:    "Asha",
		AddressLine: "12 Lake Rd",
		City:        "Pune",
		PostalCode:  "411001",
		Items:       []OrderItem{{ProductID: "p1", Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, int64(69800), order.Total)
}
