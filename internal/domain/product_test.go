package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProductSnapshot_Defaults(t *testing.T) {
	snap := NewProductSnapshot(Product{ID: "p1", Name: "Basket", Price: 34900})

	assert.Equal(t, "p1", snap.ProductID)
	assert.Equal(t, int64(0), snap.Discount)
	assert.Equal(t, DefaultMinOrder, snap.MinOrder)
	assert.Equal(t, DefaultMaxOrder, snap.MaxOrder)
	assert.Equal(t, 0, snap.Stock)
	assert.Empty(t, snap.Images)
}

func TestNewProductSnapshot_KeepsExplicitValues(t *testing.T) {
	snap := NewProductSnapshot(Product{
		ID:       "p1",
		Price:    34900,
		Discount: 5000,
		MinOrder: 2,
		MaxOrder: 40,
		Stock:    60,
		Images:   []string{"a.jpg", "b.jpg"},
	})

	assert.Equal(t, int64(5000), snap.Discount)
	assert.Equal(t, 2, snap.MinOrder)
	assert.Equal(t, 40, snap.MaxOrder)
	assert.Equal(t, 60, snap.Stock)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, snap.Images)
}

func TestNewProductSnapshot_PromotesSingleImage(t *testing.T) {
	snap := NewProductSnapshot(Product{ID: "p1", Image: "lamp.jpg"})
	assert.Equal(t, []string{"lamp.jpg"}, snap.Images)

	// An explicit list wins over the legacy field.
	snap = NewProductSnapshot(Product{ID: "p1", Image: "lamp.jpg", Images: []string{"x.jpg"}})
	assert.Equal(t, []string{"x.jpg"}, snap.Images)
}

func TestClampQuantity(t *testing.T) {
	snap := ProductSnapshot{ProductID: "p1", MinOrder: 2, MaxOrder: 10, Stock: 6}

	assert.Equal(t, 2, snap.ClampQuantity(0))
	assert.Equal(t, 2, snap.ClampQuantity(1))
	assert.Equal(t, 4, snap.ClampQuantity(4))
	assert.Equal(t, 6, snap.ClampQuantity(8), "stock bounds below max order")
}

func TestClampQuantity_NoStockInfo(t *testing.T) {
	snap := ProductSnapshot{ProductID: "p1", MinOrder: 1, MaxOrder: 5}

	assert.Equal(t, 5, snap.ClampQuantity(9))
	assert.Equal(t, 1, snap.ClampQuantity(1))
}
