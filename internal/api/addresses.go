package api

import (
	"context"
	"net/http"
)

// Address is a saved delivery address on the user's profile.
type Address struct {
	ID         string `json:"id"`
	Label      string `json:"label,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

// AddressRequest carries the writable address fields for add and update.
type AddressRequest struct {
	Label      string `json:"label,omitempty"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code" validate:"required"`
	Phone      string `json:"phone,omitempty"`
	IsDefault  bool   `json:"is_default"`
}

// Every address mutation returns the full saved list, mirroring the cart
// endpoints' full-replacement responses.
type addressesResponse struct {
	Addresses []Address `json:"addresses"`
}

// ListAddresses returns the user's saved addresses.
func (c *Client) ListAddresses(ctx context.Context) ([]Address, error) {
	var resp addressesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/addresses", nil, &resp, "addresses"); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// AddAddress saves a new address and returns the updated list.
func (c *Client) AddAddress(ctx context.Context, req AddressRequest) ([]Address, error) {
	var resp addressesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/addresses", req, &resp, "address"); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// UpdateAddress rewrites an existing address.
func (c *Client) UpdateAddress(ctx context.Context, addressID string, req AddressRequest) ([]Address, error) {
	var resp addressesResponse
	if err := c.doJSON(ctx, http.MethodPut, "/addresses/"+addressID, req, &resp, "address"); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// DeleteAddress removes a saved address.
func (c *Client) DeleteAddress(ctx context.Context, addressID string) ([]Address, error) {
	var resp addressesResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/addresses/"+addressID, nil, &resp, "address"); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// SetDefaultAddress marks one address as the checkout default.
func (c *Client) SetDefaultAddress(ctx context.Context, addressID string) ([]Address, error) {
	var resp addressesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/addresses/"+addressID+"/default", nil, &resp, "address"); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// DefaultAddress picks the delivery address checkout should use: the one
// flagged as default, else the first saved one.
func DefaultAddress(addresses []Address) (Address, bool) {
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(addresses) > 0 {
		return addresses[0], true
	}
	return Address{}, false
}
