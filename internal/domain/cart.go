package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds at most one item per product. Item prices are live catalog
// prices, they are frozen only at order creation.
type Cart struct {
	OwnerID string
	Items   []CartItem
}

type CartItem struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	Price     Money

	CreatedAt time.Time
}

func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// Total is zero-valued for an empty cart.
func (c Cart) Total() (Money, error) {
	if len(c.Items) == 0 {
		return Money{}, nil
	}

	total := Money{Currency: c.Items[0].Price.Currency}
	for _, item := range c.Items {
		var err error

		total, err = total.Add(item.Subtotal())
		if err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

func (c Cart) Item(productID uuid.UUID) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}
