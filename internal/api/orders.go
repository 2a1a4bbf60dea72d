package api

import (
	"context"
	"net/http"
	"time"
)

// OrderItem references a product line within an order.
type OrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name,omitempty"`
	Price     int64  `json:"price,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderRequest is the payload for POST /orders. Placing an order
// empties the server-side cart on success.
type PlaceOrderRequest struct {
	FullName    string      `json:"full_name" validate:"required"`
	AddressLine string      `json:"address_line" validate:"required"`
	City        string      `json:"city" validate:"required"`
	State       string      `json:"state,omitempty"`
	PostalCode  string      `json:"postal_code" validate:"required"`
	Phone       string      `json:"phone,omitempty"`
	Items       []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// Order is an order record as returned by the orders API.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

type ordersResponse struct {
	Orders []Order `json:"orders"`
}

// PlaceOrder submits an order for the current user's cart contents.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error) {
	var resp orderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/orders", req, &resp, "order"); err != nil {
		return Order{}, err
	}
	return resp.Order, nil
}

// ListOrders returns the current user's order history, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	var resp ordersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/orders", nil, &resp, "orders"); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}
