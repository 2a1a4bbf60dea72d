package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineWith(id, productID string, price int64, qty int) LineItem {
	return LineItem{
		ID:       id,
		Quantity: qty,
		Product:  &ProductSnapshot{ProductID: productID, Name: productID, Price: price},
	}
}

func TestCartSubtotal(t *testing.T) {
	cart := Cart{Items: []LineItem{
		lineWith("l1", "p1", 10000, 2),
		lineWith("l2", "p2", 5000, 1),
	}}

	assert.Equal(t, int64(25000), cart.Subtotal())
}

func TestCartSubtotal_Empty(t *testing.T) {
	assert.Equal(t, int64(0), Cart{}.Subtotal())
}

func TestCartSubtotal_SkipsLinesWithoutSnapshot(t *testing.T) {
	cart := Cart{Items: []LineItem{
		lineWith("l1", "p1", 10000, 2),
		{ID: "l2", Quantity: 3},
	}}

	assert.Equal(t, int64(20000), cart.Subtotal())
}

func TestCartCount(t *testing.T) {
	cart := Cart{Items: []LineItem{
		lineWith("l1", "p1", 100, 2),
		lineWith("l2", "p2", 100, 5),
	}}

	assert.Equal(t, 7, cart.Count())
	assert.Equal(t, 0, Cart{}.Count())
}

func TestCartFindLine(t *testing.T) {
	cart := Cart{Items: []LineItem{
		lineWith("l1", "p1", 100, 1),
		lineWith("l2", "p2", 100, 1),
	}}

	line, ok := cart.FindLine("l2")
	require.True(t, ok)
	assert.Equal(t, "p2", line.ProductID())

	_, ok = cart.FindLine("missing")
	assert.False(t, ok)
}

func TestCartFindLineByProduct(t *testing.T) {
	cart := Cart{Items: []LineItem{
		lineWith("l1", "p1", 100, 1),
		{ID: "l2", Quantity: 1},
	}}

	line, ok := cart.FindLineByProduct("p1")
	require.True(t, ok)
	assert.Equal(t, "l1", line.ID)

	_, ok = cart.FindLineByProduct("p9")
	assert.False(t, ok)
}

func TestLineItemValid(t *testing.T) {
	assert.True(t, lineWith("l1", "p1", 100, 1).Valid())
	assert.False(t, LineItem{ID: "l1", Quantity: 1}.Valid())
	assert.False(t, LineItem{ID: "l1", Quantity: 1, Product: &ProductSnapshot{}}.Valid())
}

func TestValidItems(t *testing.T) {
	items := []LineItem{
		lineWith("l1", "p1", 100, 1),
		{ID: "l2", Quantity: 2},
		lineWith("l3", "p3", 100, 1),
		{ID: "l4", Quantity: 1, Product: &ProductSnapshot{}},
	}

	valid := ValidItems(items)

	require.Len(t, valid, 2)
	assert.Equal(t, "l1", valid[0].ID)
	assert.Equal(t, "l3", valid[1].ID)

	// Filtering is idempotent.
	assert.Equal(t, valid, ValidItems(valid))
}
