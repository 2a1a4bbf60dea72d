package domain

// Default order bounds applied when the catalog record does not specify them.
const (
	DefaultMinOrder = 1
	DefaultMaxOrder = 100
)

// Product is a catalog record as returned by the products API.
// Price and Discount are in minor currency units (paise).
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       int64    `json:"price"`
	Length      int      `json:"length,omitempty"`
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	Image       string   `json:"image,omitempty"`
	Images      []string `json:"images,omitempty"`
	Discount    int64    `json:"discount,omitempty"`
	MinOrder    int      `json:"min_order,omitempty"`
	MaxOrder    int      `json:"max_order,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

// ProductSnapshot is the denormalized copy of product display fields stored
// alongside a cart line, so the cart can render without re-fetching the
// product. It is captured at add-time and may go stale relative to the live
// catalog record.
type ProductSnapshot struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     int64    `json:"price"`
	Length    int      `json:"length,omitempty"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`
	Images    []string `json:"images,omitempty"`
	Discount  int64    `json:"discount"`
	MinOrder  int      `json:"min_order"`
	MaxOrder  int      `json:"max_order"`
	Stock     int      `json:"stock"`
}

// NewProductSnapshot builds a snapshot from a catalog record, applying
// defaults exactly once: absent discount stays 0, absent min order becomes 1,
// absent max order becomes 100, absent stock stays 0. A legacy single image
// is promoted into the images list.
func NewProductSnapshot(p Product) ProductSnapshot {
	images := p.Images
	if len(images) == 0 && p.Image != "" {
		images = []string{p.Image}
	}

	minOrder := p.MinOrder
	if minOrder <= 0 {
		minOrder = DefaultMinOrder
	}

	maxOrder := p.MaxOrder
	if maxOrder <= 0 {
		maxOrder = DefaultMaxOrder
	}

	stock := p.Stock
	if stock < 0 {
		stock = 0
	}

	return ProductSnapshot{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Length:    p.Length,
		Width:     p.Width,
		Height:    p.Height,
		Images:    images,
		Discount:  p.Discount,
		MinOrder:  minOrder,
		MaxOrder:  maxOrder,
		Stock:     stock,
	}
}

// ClampQuantity bounds a requested quantity to the snapshot's order limits
// and available stock. Business-rule clamping belongs to the calling surface
// (the cart synchronizer forwards quantities untouched).
func (s ProductSnapshot) ClampQuantity(qty int) int {
	if qty < s.MinOrder {
		qty = s.MinOrder
	}
	max := s.MaxOrder
	if s.Stock > 0 && s.Stock < max {
		max = s.Stock
	}
	if max > 0 && qty > max {
		qty = max
	}
	return qty
}
