// Package cart maintains the working cart: one line per product, insertion
// order preserved, every mutation written to durable storage before the
// mutator returns.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
	"github.com/atulkamble/ecommerce-devops-project/internal/storage"
)

const keyCart = "storefront_cart"

// Store owns the cart contents. Pure in-process merge logic, no network.
type Store struct {
	mu    sync.RWMutex
	kv    storage.KV
	log   logrus.FieldLogger
	lines []domain.CartLine
}

func NewStore(kv storage.KV, log logrus.FieldLogger) *Store {
	return &Store{
		kv:  kv,
		log: log,
	}
}

// Initialize loads the persisted cart. Malformed data yields an empty cart
// and removes the corrupt entry; it is never an error.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.kv.Get(keyCart)
	if !ok {
		s.lines = nil
		return
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.Warn("discarding malformed persisted cart")
		s.kv.Remove(keyCart)
		s.lines = nil
		return
	}

	// Drop lines a buggy writer could have left behind; quantity is always
	// positive in a persisted cart.
	valid := lines[:0]
	for _, line := range lines {
		if line.ProductID != 0 && line.Quantity > 0 {
			valid = append(valid, line)
		}
	}
	s.lines = valid
}

// AddItem merges quantity into an existing line for the product or appends a
// new line at the end. On merge the original price/name snapshot is kept; the
// product argument only seeds a brand-new line.
func (s *Store) AddItem(product domain.Product, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == product.ID {
			s.lines[i].Quantity += quantity
			s.persistLocked()
			return
		}
	}

	s.lines = append(s.lines, domain.CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
		Quantity:  quantity,
	})
	s.persistLocked()
}

// RemoveItem deletes the line for productID. Absent id is a no-op.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

// UpdateQuantity sets the line's quantity. Zero or negative quantity deletes
// the line instead; the store never persists a non-positive quantity.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			s.persistLocked()
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persistLocked()
}

// Lines returns a copy of the cart in display order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalPrice is the sum of price x quantity over all lines. Rounding to two
// decimals is a display concern, not done here.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, line := range s.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// TotalItemCount is the sum of quantities over all lines.
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Snapshot captures the cart as checkout items, product id and quantity only.
// The copy does not track later cart changes.
func (s *Store) Snapshot() []domain.CheckoutItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.CheckoutItem, 0, len(s.lines))
	for _, line := range s.lines {
		items = append(items, domain.CheckoutItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return items
}

func (s *Store) removeLocked(productID int64) {
	for i, line := range s.lines {
		if line.ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

func (s *Store) persistLocked() {
	raw, _ := json.Marshal(s.lines)
	s.kv.Set(keyCart, string(raw))
}
