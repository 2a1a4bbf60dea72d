package api

import (
	"context"
	"net/http"

	"github.com/vin2grow/storefront-go/internal/domain"
)

// Cart resource contract. Every cart line is addressed by its
// server-assigned line ID:
//
//	GET    /cart                  -> {items: []LineItem}
//	POST   /cart/items            -> {items: []LineItem}
//	PATCH  /cart/items/{lineId}   -> {items: []LineItem}
//	DELETE /cart/items/{lineId}   -> {items: []LineItem}
//	DELETE /cart                  -> 204
//
// Adding a product that already has a line merges server-side by
// incrementing that line's quantity; the client never computes the merge.

// AddItemRequest is the payload for POST /cart/items. The snapshot carries
// the display fields the cart needs to render without a product re-fetch.
type AddItemRequest struct {
	ProductID string                 `json:"product_id" validate:"required"`
	Quantity  int                    `json:"quantity" validate:"required,gte=1"`
	Product   domain.ProductSnapshot `json:"product"`
}

// UpdateQuantityRequest is the payload for PATCH /cart/items/{lineId}.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type cartResponse struct {
	Items []domain.LineItem `json:"items"`
}

// FetchCart retrieves the full cart. A missing cart surfaces as
// errors.ErrNotFound; the caller decides whether that is benign.
func (c *Client) FetchCart(ctx context.Context) ([]domain.LineItem, error) {
	var resp cartResponse
	if err := c.doJSON(ctx, http.MethodGet, "/cart", nil, &resp, "cart"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddItem posts a new line and returns the server's full item list.
func (c *Client) AddItem(ctx context.Context, req AddItemRequest) ([]domain.LineItem, error) {
	var resp cartResponse
	if err := c.doJSON(ctx, http.MethodPost, "/cart/items", req, &resp, "cart"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (c *Client) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) ([]domain.LineItem, error) {
	var resp cartResponse
	req := UpdateQuantityRequest{Quantity: quantity}
	if err := c.doJSON(ctx, http.MethodPatch, "/cart/items/"+lineID, req, &resp, "cart item"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// RemoveItem deletes a line and returns the remaining items.
func (c *Client) RemoveItem(ctx context.Context, lineID string) ([]domain.LineItem, error) {
	var resp cartResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/cart/items/"+lineID, nil, &resp, "cart item"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ClearCart deletes the whole cart resource.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart", nil, nil, "cart")
}
