package inmem

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type OrderStore struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]domain.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[uuid.UUID]domain.Order),
	}
}

func (s *OrderStore) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	return cloneOrder(order), nil
}

func (s *OrderStore) InsertOrder(_ context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = uuid.New()
	order.Status = domain.OrderStatusPending
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	s.orders[order.ID] = cloneOrder(order)

	return order.ID, nil
}

func (s *OrderStore) TransitionOrderStatus(_ context.Context, orderID uuid.UUID, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return false, domain.ErrOrderNotFound
	}

	if !slices.Contains(from, order.Status) {
		return false, nil
	}

	order.Status = to
	order.UpdatedAt = time.Now()
	s.orders[orderID] = order

	return true, nil
}

func (s *OrderStore) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var orders []domain.Order
	for _, order := range s.orders {
		if len(filter.IDs) > 0 && !slices.Contains(filter.IDs, order.ID) {
			continue
		}
		if len(filter.OwnerIDs) > 0 && !slices.Contains(filter.OwnerIDs, order.OwnerID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, order.Status) {
			continue
		}
		if filter.CreatedAt != nil {
			if filter.CreatedAt.After != nil && order.CreatedAt.Before(*filter.CreatedAt.After) {
				continue
			}
			if filter.CreatedAt.Before != nil && order.CreatedAt.After(*filter.CreatedAt.Before) {
				continue
			}
		}
		orders = append(orders, cloneOrder(order))
	}

	return orders, nil
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
