package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

// OrderLine is one requested (product, quantity) pair of an order request.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService drives the order status state machine and coordinates stock
// reservation and release around it.
type OrderService struct {
	orders        port.OrderRepository
	products      port.ProductRepository
	ledger        port.StockLedger
	carts         port.CartRepository
	prescriptions port.PrescriptionRepository
	publisher     port.OrderEventPublisher
}

func NewOrder(
	orders port.OrderRepository,
	products port.ProductRepository,
	ledger port.StockLedger,
	carts port.CartRepository,
	prescriptions port.PrescriptionRepository,
	publisher port.OrderEventPublisher,
) *OrderService {
	return &OrderService{
		orders:        orders,
		products:      products,
		ledger:        ledger,
		carts:         carts,
		prescriptions: prescriptions,
		publisher:     publisher,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("orders.GetOrder: %w", err)
	}

	return order, nil
}

func (s *OrderService) ListOrdersByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	orders, err := s.orders.SearchOrders(ctx, domain.OrderFilter{OwnerIDs: []string{ownerID}})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	orders, err := s.orders.SearchOrders(ctx, domain.OrderFilter{Statuses: []domain.OrderStatus{status}})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

// CreateOrder is the atomicity boundary: either every line is reserved and
// the order exists, or nothing is reserved and nothing is persisted.
// Reservations made before a failing line are compensated with releases.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID, shippingAddress string, lines []OrderLine) (domain.Order, error) {
	var o domain.Order

	lines, err := mergeLines(lines)
	if err != nil {
		return o, err
	}

	// Resolve and gate every product before touching any stock.
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return o, fmt.Errorf("products.GetProduct[%s]: %w", line.ProductID, err)
		}

		if product.RequiresPrescription {
			approved, err := s.prescriptions.HasApproved(ctx, ownerID, product.ID)
			if err != nil {
				return o, fmt.Errorf("prescriptions.HasApproved: %w", err)
			}
			if !approved {
				return o, fmt.Errorf("product %q: %w", product.Name, domain.ErrPrescriptionRequired)
			}
		}

		// Price is frozen here, at reservation time.
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	reserved, err := s.reserveAll(ctx, lines)
	if err != nil {
		return o, err
	}

	total, err := orderTotal(items)
	if err != nil {
		s.releaseAll(ctx, reserved)
		return o, fmt.Errorf("orderTotal: %w", err)
	}

	order := domain.Order{
		OwnerID:         ownerID,
		Status:          domain.OrderStatusPending,
		Total:           total,
		ShippingAddress: shippingAddress,
		Items:           items,
	}

	orderID, err := s.orders.InsertOrder(ctx, order)
	if err != nil {
		s.releaseAll(ctx, reserved)
		return o, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	created, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	s.publish(ctx, created, domain.OrderEventCreated)

	return created, nil
}

// CreateOrderFromCart checks out the owner's cart and clears it on success.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, ownerID, shippingAddress string) (domain.Order, error) {
	var o domain.Order

	cart, err := s.carts.GetCart(ctx, ownerID)
	if err != nil {
		return o, fmt.Errorf("carts.GetCart: %w", err)
	}

	if len(cart.Items) == 0 {
		return o, errors.New("cart is empty")
	}

	lines := make([]OrderLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := s.CreateOrder(ctx, ownerID, shippingAddress, lines)
	if err != nil {
		return o, err
	}

	if err := s.carts.ClearCart(ctx, ownerID); err != nil {
		// The order stands, an uncleared cart is a nuisance not a consistency bug.
		log.Printf("clear cart after checkout for %s: %v", ownerID, err)
	}

	return order, nil
}

// UpdateStatus enforces the full transition graph. Cancellation is routed
// through CancelOrder so stock release is never skipped.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.OrderStatus) (domain.Order, error) {
	if newStatus == domain.OrderStatusCancelled {
		return s.CancelOrder(ctx, orderID)
	}

	var o domain.Order

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return o, fmt.Errorf("%s -> %s: %w", order.Status, newStatus, domain.ErrInvalidTransition)
	}

	won, err := s.orders.TransitionOrderStatus(ctx, orderID, []domain.OrderStatus{order.Status}, newStatus)
	if err != nil {
		return o, fmt.Errorf("orders.TransitionOrderStatus: %w", err)
	}
	if !won {
		// the order moved between the read and the write
		return o, fmt.Errorf("%s -> %s: %w", order.Status, newStatus, domain.ErrInvalidTransition)
	}

	order.Status = newStatus
	s.publish(ctx, order, domain.OrderEventStatusUpdated)

	return order, nil
}

// CancelOrder releases exactly what was reserved at creation. Cancelling an
// order that is SHIPPED, DELIVERED or already CANCELLED fails explicitly.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !order.Status.Cancellable() {
		return o, fmt.Errorf("cancel from %s: %w", order.Status, domain.ErrInvalidTransition)
	}

	// Winning the conditional write decides the single canceller. A caller
	// that loses a concurrent cancel stops here and never reaches the
	// release loop, so stock cannot be restored twice.
	won, err := s.orders.TransitionOrderStatus(ctx, orderID, domain.CancellableStatuses(), domain.OrderStatusCancelled)
	if err != nil {
		return o, fmt.Errorf("orders.TransitionOrderStatus: %w", err)
	}
	if !won {
		return o, fmt.Errorf("order %s is no longer cancellable: %w", orderID, domain.ErrInvalidTransition)
	}

	lines := make([]OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	s.releaseAll(ctx, lines)

	order.Status = domain.OrderStatusCancelled
	s.publish(ctx, order, domain.OrderEventCancelled)

	return order, nil
}

// reserveAll reserves line by line, rolling back earlier reservations when a
// later one fails. Each Reserve is atomic on its own product.
func (s *OrderService) reserveAll(ctx context.Context, lines []OrderLine) ([]OrderLine, error) {
	var reserved []OrderLine

	for _, line := range lines {
		if err := s.ledger.Reserve(ctx, line.ProductID, line.Quantity); err != nil {
			s.releaseAll(ctx, reserved)
			return nil, fmt.Errorf("ledger.Reserve[%s]: %w", line.ProductID, err)
		}
		reserved = append(reserved, line)
	}

	return reserved, nil
}

func (s *OrderService) releaseAll(ctx context.Context, lines []OrderLine) {
	for _, line := range lines {
		if err := s.ledger.Release(ctx, line.ProductID, line.Quantity); err != nil {
			log.Printf("release %d of product %s: %v", line.Quantity, line.ProductID, err)
		}
	}
}

func (s *OrderService) publish(ctx context.Context, order domain.Order, eventType domain.OrderEventType) {
	if s.publisher == nil {
		return
	}

	event := domain.OrderEvent{
		OrderID:  order.ID,
		OwnerID:  order.OwnerID,
		Type:     eventType,
		Status:   order.Status,
		Total:    order.Total.String(),
		Occurred: time.Now(),
	}

	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Printf("publish order event %s for %s: %v", eventType, order.ID, err)
	}
}

// mergeLines collapses duplicate product lines, quantities accumulate.
func mergeLines(lines []OrderLine) ([]OrderLine, error) {
	if len(lines) == 0 {
		return nil, errors.New("no items in order")
	}

	var merged []OrderLine
	index := make(map[uuid.UUID]int)

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %d", line.Quantity)
		}

		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}

		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return merged, nil
}

func orderTotal(items []domain.OrderItem) (domain.Money, error) {
	total := domain.Money{Currency: items[0].Price.Currency}

	for _, item := range items {
		var err error

		total, err = total.Add(item.Subtotal())
		if err != nil {
			return domain.Money{}, err
		}
	}

	return total, nil
}
