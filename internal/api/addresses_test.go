package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

func TestListAddresses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/addresses", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"addresses": []map[string]any{
				{"id": "a1", "street": "12 Lake Rd", "city": "Pune", "postal_code": "411001", "is_default": true},
			},
		})
	}, "tok")

	addresses, err := client.ListAddresses(context.Background())

	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, "a1", addresses[0].ID)
	assert.True(t, addresses[0].IsDefault)
}

func TestAddAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/addresses", r.URL.Path)

		var req AddressRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "12 Lake Rd", req.Street)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"addresses": []map[string]any{
				{"id": "a1", "street": req.Street, "city": req.City, "postal_code": req.PostalCode, "is_default": true},
			},
		})
	}, "tok")

	addresses, err := client.AddAddress(context.Background(), AddressRequest{
		Street:     "12 Lake Rd",
		City:       "Pune",
		PostalCode: "411001",
	})

	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}

func TestSetDefaultAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/addresses/a2/default", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"addresses": []any{}})
	}, "tok")

	_, err := client.SetDefaultAddress(context.Background(), "a2")
	require.NoError(t, err)
}

func TestDeleteAddress_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/addresses/nope", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "address not found"},
		})
	}, "tok")

	_, err := client.DeleteAddress(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDefaultAddress(t *testing.T) {
	flagged := Address{ID: "a2", IsDefault: true}
	list := []Address{{ID: "a1"}, flagged}

	picked, ok := DefaultAddress(list)
	require.True(t, ok)
	assert.Equal(t, "a2", picked.ID)

	// Without a flagged default the first saved address is used.
	picked, ok = DefaultAddress([]Address{{ID: "a1"}, {ID: "a3"}})
	require.True(t, ok)
	assert.Equal(t, "a1", picked.ID)

	_, ok = DefaultAddress(nil)
	assert.False(t, ok)
}
