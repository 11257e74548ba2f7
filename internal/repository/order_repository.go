package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

type orderRepository struct {
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{dbtx: pool}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{dbtx: tx}
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	order, err := withTx(ctx, r.dbtx, func(tx db.DBTX) (domain.Order, error) {
		row := tx.QueryRow(ctx,
			`SELECT id, owner_id, status, total_amount::text, total_currency,
			        shipping_address, created_at, updated_at
			 FROM orders WHERE id = $1`,
			orderID)

		order, err := scanOrder(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, domain.ErrOrderNotFound
			}
			return o, fmt.Errorf("scanOrder: %w", err)
		}

		order.Items, err = getOrderItems(ctx, tx, orderID)
		if err != nil {
			return o, fmt.Errorf("getOrderItems: %w", err)
		}

		return order, nil
	})
	if err != nil {
		return o, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (uuid.UUID, error) {
	if len(order.Items) == 0 {
		return uuid.Nil, errors.New("no items in order")
	}

	orderID, err := withTx(ctx, r.dbtx, func(tx db.DBTX) (uuid.UUID, error) {
		var orderID uuid.UUID

		err := tx.QueryRow(ctx,
			`INSERT INTO orders (owner_id, status, total_amount, total_currency, shipping_address)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			order.OwnerID, string(domain.OrderStatusPending),
			order.Total.Amount.String(), order.Total.Currency.String(),
			order.ShippingAddress,
		).Scan(&orderID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO order_items (order_id, product_id, name, quantity, price_amount, price_currency)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				orderID, item.ProductID, item.Name, item.Quantity,
				item.Price.Amount.String(), item.Price.Currency.String()); err != nil {
				return uuid.Nil, fmt.Errorf("insert order item: %w", err)
			}
		}

		return orderID, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("withTx: %w", err)
	}

	return orderID, nil
}

func (r *orderRepository) TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, from []domain.OrderStatus, to domain.OrderStatus) (bool, error) {
	if orderID == uuid.Nil {
		return false, fmt.Errorf("orderID is empty")
	}

	if to == "" {
		return false, fmt.Errorf("status is empty")
	}

	if len(from) == 0 {
		return false, fmt.Errorf("from statuses are empty")
	}

	fromStrs := lo.Map(from, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})

	// The status predicate rides on the UPDATE itself, concurrent callers
	// cannot both match.
	cmdTag, err := r.dbtx.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = ANY ($3)`,
		orderID, string(to), fromStrs)
	if err != nil {
		return false, fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.dbtx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return false, fmt.Errorf("dbtx.QueryRow: %w", err)
		}
		if !exists {
			return false, domain.ErrOrderNotFound
		}
		return false, nil
	}

	return true, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var statuses []string
	for _, status := range filter.Statuses {
		statuses = append(statuses, string(status))
	}

	var createdAfter, createdBefore any
	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	rows, err := r.dbtx.Query(ctx,
		`SELECT o.id, o.owner_id, o.status, o.total_amount::text, o.total_currency,
		        o.shipping_address, o.created_at, o.updated_at,
		        oi.product_id, oi.name, oi.quantity, oi.price_amount::text, oi.price_currency
		 FROM orders o
		 JOIN order_items oi ON o.id = oi.order_id
		 WHERE ($1::uuid[] IS NULL OR o.id = ANY ($1))
		   AND ($2::text[] IS NULL OR o.owner_id = ANY ($2))
		   AND ($3::text[] IS NULL OR o.status = ANY ($3))
		   AND ($4::timestamptz IS NULL OR o.created_at >= $4)
		   AND ($5::timestamptz IS NULL OR o.created_at <= $5)
		 ORDER BY o.created_at DESC`,
		nilSliceIfEmpty(filter.IDs), nilSliceIfEmpty(filter.OwnerIDs), nilSliceIfEmpty(statuses),
		createdAfter, createdBefore)
	if err != nil {
		return nil, fmt.Errorf("dbtx.Query: %w", err)
	}
	defer rows.Close()

	// Group rows of the join into orders with their items
	orderMap := make(map[uuid.UUID]domain.Order)
	for rows.Next() {
		var (
			order             domain.Order
			statusStr         string
			totalAmountStr    string
			totalCurrencyStr  string
			item              domain.OrderItem
			priceAmountStr    string
			priceCurrencyStr  string
		)

		if err := rows.Scan(&order.ID, &order.OwnerID, &statusStr, &totalAmountStr, &totalCurrencyStr,
			&order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt,
			&item.ProductID, &item.Name, &item.Quantity, &priceAmountStr, &priceCurrencyStr); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		if existing, ok := orderMap[order.ID]; ok {
			order = existing
		} else {
			order.Status, err = domain.ToOrderStatus(statusStr)
			if err != nil {
				return nil, fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusStr, err)
			}

			order.Total, err = mapMoney(totalAmountStr, totalCurrencyStr)
			if err != nil {
				return nil, fmt.Errorf("mapMoney: %w", err)
			}
		}

		item.Price, err = mapMoney(priceAmountStr, priceCurrencyStr)
		if err != nil {
			return nil, fmt.Errorf("mapMoney: %w", err)
		}

		order.Items = append(order.Items, item)
		orderMap[order.ID] = order
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lo.Values(orderMap), nil
}

func getOrderItems(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := dbtx.Query(ctx,
		`SELECT product_id, name, quantity, price_amount::text, price_currency, created_at
		 FROM order_items WHERE order_id = $1
		 ORDER BY created_at`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("dbtx.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			item        domain.OrderItem
			amountStr   string
			currencyStr string
		)

		if err := rows.Scan(&item.ProductID, &item.Name, &item.Quantity,
			&amountStr, &currencyStr, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		item.Price, err = mapMoney(amountStr, currencyStr)
		if err != nil {
			return nil, fmt.Errorf("mapMoney: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o            domain.Order
		statusStr    string
		amountStr    string
		currencyStr  string
	)

	err := row.Scan(&o.ID, &o.OwnerID, &statusStr, &amountStr, &currencyStr,
		&o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	o.Status, err = domain.ToOrderStatus(statusStr)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", statusStr, err)
	}

	o.Total, err = mapMoney(amountStr, currencyStr)
	if err != nil {
		return o, fmt.Errorf("mapMoney: %w", err)
	}

	return o, nil
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
