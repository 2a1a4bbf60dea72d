package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestValidate_Valid(t *testing.T) {
	err := Validate(addItemInput{ProductID: "p1", Quantity: 2})
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(addItemInput{Quantity: 2})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "ProductID")
	assert.Equal(t, "is required", fields["ProductID"])
}

func TestValidate_BelowMinimum(t *testing.T) {
	err := Validate(addItemInput{ProductID: "p1", Quantity: -1})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Error(), "Quantity")
}

func TestValidate_BadEmail(t *testing.T) {
	err := Validate(addItemInput{ProductID: "p1", Quantity: 1, Email: "not-an-email"})

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields()["Email"])
}

func TestDecodeAndValidate(t *testing.T) {
	req := httptest.NewRequest("POST", "/cart/items",
		strings.NewReader(`{"product_id":"p1","quantity":2}`))

	var input addItemInput
	require.NoError(t, DecodeAndValidate(req, &input))
	assert.Equal(t, "p1", input.ProductID)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/cart/items", strings.NewReader(`{nope`))

	var input addItemInput
	err := DecodeAndValidate(req, &input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_InvalidPayload(t *testing.T) {
	req := httptest.NewRequest("POST", "/cart/items",
		strings.NewReader(`{"quantity":2}`))

	var input addItemInput
	err := DecodeAndValidate(req, &input)
	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}
