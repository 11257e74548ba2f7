package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

// CartStore keeps one cart per owner. Line order is insertion order, so
// display iteration stays stable.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
}

func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string][]domain.CartItem),
	}
}

func (s *CartStore) GetCart(_ context.Context, ownerID string) (domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.CartItem, len(s.carts[ownerID]))
	copy(items, s.carts[ownerID])

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

func (s *CartStore) UpsertItem(_ context.Context, ownerID string, item domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[ownerID]
	for i, existing := range items {
		if existing.ProductID == item.ProductID {
			item.CreatedAt = existing.CreatedAt
			items[i] = item
			return nil
		}
	}

	item.CreatedAt = time.Now()
	s.carts[ownerID] = append(items, item)

	return nil
}

func (s *CartStore) DeleteItem(_ context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[ownerID]
	for i, existing := range items {
		if existing.ProductID == productID {
			s.carts[ownerID] = append(items[:i], items[i+1:]...)
			return true, nil
		}
	}

	return false, nil
}

func (s *CartStore) ClearCart(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, ownerID)

	return nil
}
