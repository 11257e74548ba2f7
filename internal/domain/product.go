package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID                   uuid.UUID
	Name                 string
	Description          string
	Category             string
	Price                Money
	Stock                int
	RequiresPrescription bool
	ImageURL             string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is empty")
	}

	if p.Price.IsNegative() {
		return errors.New("price is negative")
	}

	if p.Stock < 0 {
		return errors.New("stock is negative")
	}

	return nil
}

// ProductFilter has AND semantics across fields.
type ProductFilter struct {
	Category             string
	NamePattern          string
	RequiresPrescription *bool
}
