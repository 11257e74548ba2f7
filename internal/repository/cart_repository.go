package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

type cartRepository struct {
	dbtx db.DBTX
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{dbtx: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{dbtx: tx}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	var c domain.Cart

	rows, err := r.dbtx.Query(ctx,
		`SELECT ci.product_id, p.name, ci.quantity, ci.price_amount::text, ci.price_currency, ci.created_at
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.owner_id = $1
		 ORDER BY ci.created_at`,
		ownerID)
	if err != nil {
		return c, fmt.Errorf("dbtx.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item        domain.CartItem
			amountStr   string
			currencyStr string
		)

		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity,
			&amountStr, &currencyStr, &item.CreatedAt); err != nil {
			return c, fmt.Errorf("rows.Scan: %w", err)
		}

		item.Price, err = mapMoney(amountStr, currencyStr)
		if err != nil {
			return c, fmt.Errorf("mapMoney: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return c, fmt.Errorf("rows.Err: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

// UpsertItem overwrites quantity and cached price of an existing line, cart
// prices stay live until checkout.
func (r *cartRepository) UpsertItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %d", item.Quantity)
	}

	_, err := r.dbtx.Exec(ctx,
		`INSERT INTO cart_items (owner_id, product_id, quantity, price_amount, price_currency)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (owner_id, product_id)
		 DO UPDATE SET quantity = EXCLUDED.quantity,
		               price_amount = EXCLUDED.price_amount,
		               price_currency = EXCLUDED.price_currency`,
		ownerID, item.ProductID, item.Quantity,
		item.Price.Amount.String(), item.Price.Currency.String())
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	cmdTag, err := r.dbtx.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1 AND product_id = $2`,
		ownerID, productID)
	if err != nil {
		return false, fmt.Errorf("dbtx.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	if _, err := r.dbtx.Exec(ctx,
		`DELETE FROM cart_items WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	return nil
}
