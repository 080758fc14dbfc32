package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"tienda-storefront/internal/logger"
	"tienda-storefront/internal/product"
	"tienda-storefront/internal/storage"
)

// Store owns the shopper's cart for one session. Every mutation re-persists
// the full line-item list; in-memory state stays authoritative when the
// backend storage misbehaves.
type Store struct {
	mu     sync.Mutex
	items  []Item
	isOpen bool

	st  storage.Store
	key string
}

// NewStore builds a cart store and rehydrates it from persistence. A missing,
// unreadable or malformed record yields an empty cart, never an error.
func NewStore(ctx context.Context, st storage.Store, key string) *Store {
	s := &Store{st: st, key: key}

	data, err := st.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.FromCtx(ctx).Warn("cart rehydration failed, starting empty",
				zap.String("key", key), zap.Error(err))
		}
		return s
	}

	var saved []Item
	if err := json.Unmarshal(data, &saved); err != nil {
		logger.FromCtx(ctx).Warn("saved cart is malformed, starting empty",
			zap.String("key", key), zap.Error(err))
		return s
	}

	for _, it := range saved {
		if it.valid() {
			s.items = append(s.items, it)
		}
	}
	return s
}

// Add puts one unit of the product in the cart. Adding a product that is
// already present bumps its quantity instead of creating a second line.
func (s *Store) Add(ctx context.Context, p product.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Quantity++
			s.persist(ctx)
			return
		}
	}

	s.items = append(s.items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  1,
	})
	s.persist(ctx)
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(ctx, productID)
}

func (s *Store) removeLocked(ctx context.Context, productID string) {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// SetQuantity sets the quantity for productID. Anything below one removes
// the line entirely.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty < 1 {
		s.removeLocked(ctx, productID)
		return
	}
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = qty
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart and removes the persisted record entirely, so an
// intentionally emptied cart leaves no stale storage behind.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.st.Delete(ctx, s.key); err != nil {
		logger.FromCtx(ctx).Warn("clearing persisted cart failed",
			zap.String("key", s.key), zap.Error(err))
	}
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Total returns the live cart total, recomputed on every call.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, it := range s.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}

// Count returns the number of units across all lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// Toggle flips the cart panel visibility flag. Pure UI state, not persisted.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = !s.isOpen
}

func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = open
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// persist writes the full list. A write failure is logged and tolerated: the
// next mutation writes the whole state again anyway.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		logger.FromCtx(ctx).Error("marshal cart", zap.Error(err))
		return
	}
	if err := s.st.Set(ctx, s.key, data); err != nil {
		logger.FromCtx(ctx).Warn("persisting cart failed, keeping in-memory state",
			zap.String("key", s.key), zap.Error(err))
	}
}
