package port

import (
	"context"

	"github.com/pharmakart/backend/internal/domain"
)

// OrderEventPublisher emits fire-and-forget order lifecycle events after the
// corresponding state has been committed. Publish failures are logged, never
// propagated into the order flow.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}
