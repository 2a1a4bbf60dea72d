package cart

import (
	"sync"

	"github.com/vin2grow/storefront-go/internal/domain"
)

// Store holds the authoritative client-side snapshot of the cart. The only
// writer is the Synchronizer, which replaces the contents wholesale after
// every successful server round-trip; consumers read synchronous snapshots.
type Store struct {
	mu   sync.RWMutex
	cart domain.Cart
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{}
}

// Items returns a copy of the current line items, in display order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.LineItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return items
}

// Subtotal returns the cart total in minor currency units. Malformed lines
// contribute nothing; this never fails.
func (s *Store) Subtotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Subtotal()
}

// Count returns the total number of units in the cart.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Count()
}

// Find returns the line with the given server-assigned ID.
func (s *Store) Find(lineID string) (domain.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.FindLine(lineID)
}

// FindByProduct returns the line referencing the given product.
func (s *Store) FindByProduct(productID string) (domain.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.FindLineByProduct(productID)
}

// Replace substitutes the stored items with the given list. This is the only
// mutation primitive: server responses are the single source of truth, and
// there is no in-place item mutation.
func (s *Store) Replace(items []domain.LineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = domain.Cart{Items: items}
}
