package devserver

import (
	"context"

	"github.com/vin2grow/storefront-go/internal/domain"
	apperrors "github.com/vin2grow/storefront-go/pkg/errors"
)

// Catalog serves the seeded product list. The development server has no
// catalog admin surface, so the data is fixed at startup.
type Catalog struct {
	products []domain.Product
	byID     map[string]domain.Product
}

// NewCatalog builds a catalog from the given products.
func NewCatalog(products []domain.Product) *Catalog {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// List returns all products in seed order.
func (c *Catalog) List(_ context.Context) []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns a single product by ID.
func (c *Catalog) Get(_ context.Context, id string) (domain.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return p, nil
}

// SeedProducts is the default development catalog. Prices are in paise.
func SeedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "bamboo-wall-shelf",
			Name:        "Bamboo Wall Shelf",
			Description: "Hand-woven three-tier wall shelf made from treated bamboo.",
			Category:    "furniture",
			Price:       129900,
			Length:      60, Width: 20, Height: 45,
			Images:   []string{"/images/bamboo-wall-shelf.jpg"},
			MinOrder: 1, MaxOrder: 10,
			Stock: 25,
		},
		{
			ID:          "bamboo-fruit-basket",
			Name:        "Bamboo Fruit Basket",
			Description: "Round woven basket with carry handle.",
			Category:    "kitchen",
			Price:       34900,
			Discount:    5000,
			Length:      30, Width: 30, Height: 15,
			Images:   []string{"/images/bamboo-fruit-basket.jpg"},
			MinOrder: 1, MaxOrder: 50,
			Stock: 120,
		},
		{
			ID:          "bamboo-table-lamp",
			Name:        "Bamboo Table Lamp",
			Description: "Warm-light table lamp with a turned bamboo base.",
			Category:    "lighting",
			Price:       89900,
			Length:      18, Width: 18, Height: 40,
			Image:    "/images/bamboo-table-lamp.jpg",
			MinOrder: 1, MaxOrder: 5,
			Stock: 8,
		},
		{
			ID:          "bamboo-serving-tray",
			Name:        "Bamboo Serving Tray",
			Description: "Flat serving tray with raised edges and handles.",
			Category:    "kitchen",
			Price:       49900,
			Length:      45, Width: 30, Height: 5,
			Images:   []string{"/images/bamboo-serving-tray.jpg", "/images/bamboo-serving-tray-2.jpg"},
			MinOrder: 2, MaxOrder: 40,
			Stock: 60,
		},
		{
			ID:          "bamboo-plant-stand",
			Name:        "Bamboo Plant Stand",
			Description: "Two-level stand for indoor planters.",
			Category:    "garden",
			Price:       74900,
			Length:      35, Width: 35, Height: 70,
			Images:   []string{"/images/bamboo-plant-stand.jpg"},
			MinOrder: 1,
			Stock:    0,
		},
	}
}
