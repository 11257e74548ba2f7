package domain

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID              uuid.UUID
	OwnerID         string
	Status          OrderStatus
	Total           Money
	ShippingAddress string
	Items           []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem carries the unit price frozen at order creation. Catalog price
// changes after that point do not affect it.
type OrderItem struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	Price     Money

	CreatedAt time.Time
}

func (i OrderItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}
