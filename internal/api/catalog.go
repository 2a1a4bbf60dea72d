package api

import (
	"context"
	"net/http"

	"github.com/vin2grow/storefront-go/internal/domain"
)

type productsResponse struct {
	Products []domain.Product `json:"products"`
}

// ListProducts returns the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var resp productsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/products", nil, &resp, "products"); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// GetProduct returns a single catalog record by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var product domain.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+id, nil, &product, "product"); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}
