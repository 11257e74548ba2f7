package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)

	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error)

	// TransitionOrderStatus writes to only when the current status is one of
	// from, reporting whether this caller won the write. The check and the
	// write are a single atomic step.
	TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, from []domain.OrderStatus, to domain.OrderStatus) (bool, error)
}
