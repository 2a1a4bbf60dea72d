package domain

// LineItem is one product-plus-quantity entry within a cart. The ID is
// assigned by the server and is unique within the cart.
type LineItem struct {
	ID       string           `json:"id"`
	Quantity int              `json:"quantity"`
	Product  *ProductSnapshot `json:"product,omitempty"`
}

// Valid reports whether the line carries a usable product reference.
// Lines failing this check are treated as corrupt and dropped on load,
// not repaired.
func (l LineItem) Valid() bool {
	return l.Product != nil && l.Product.ProductID != ""
}

// ProductID returns the referenced product's ID, or "" for a corrupt line.
func (l LineItem) ProductID() string {
	if l.Product == nil {
		return ""
	}
	return l.Product.ProductID
}

// Cart is the client-side copy of the remote cart resource. The server is
// the source of truth; this value is replaced wholesale after every
// successful round-trip.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Subtotal sums price x quantity over all lines carrying a product snapshot.
// Lines without a snapshot contribute nothing. Never fails on malformed input.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// Count returns the total number of units across all lines.
func (c Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindLine returns the line with the given server-assigned ID.
func (c Cart) FindLine(lineID string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ID == lineID {
			return item, true
		}
	}
	return LineItem{}, false
}

// FindLineByProduct returns the line referencing the given product.
func (c Cart) FindLineByProduct(productID string) (LineItem, bool) {
	for _, item := range c.Items {
		if item.ProductID() == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// ValidItems filters out lines with a missing product reference. The result
// is deterministic: filtering the same payload twice yields the same lines.
func ValidItems(items []LineItem) []LineItem {
	valid := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Valid() {
			valid = append(valid, item)
		}
	}
	return valid
}
