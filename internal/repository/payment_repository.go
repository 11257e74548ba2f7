package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

// uniqueViolation is the SQLSTATE raised by the UNIQUE constraint on
// payments.order_id, the backstop for concurrent duplicate payments.
const uniqueViolation = "23505"

type paymentRepository struct {
	dbtx db.DBTX
}

func NewPayment(pool *pgxpool.Pool) port.PaymentRepository {
	return &paymentRepository{dbtx: pool}
}

func NewPaymentWithTx(tx pgx.Tx) port.PaymentRepository {
	return &paymentRepository{dbtx: tx}
}

const paymentColumns = `id, order_id, amount::text, currency, method, status,
	transaction_id, card_last_four, card_holder_name, created_at, updated_at`

func (r *paymentRepository) GetPayment(ctx context.Context, paymentID uuid.UUID) (domain.Payment, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, paymentID)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment, domain.ErrPaymentNotFound
		}
		return payment, fmt.Errorf("scanPayment: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) GetPaymentByOrder(ctx context.Context, orderID uuid.UUID) (domain.Payment, error) {
	row := r.dbtx.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1`, orderID)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment, domain.ErrPaymentNotFound
		}
		return payment, fmt.Errorf("scanPayment: %w", err)
	}

	return payment, nil
}

func (r *paymentRepository) InsertPayment(ctx context.Context, payment domain.Payment) (uuid.UUID, error) {
	if payment.OrderID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("orderID is empty")
	}

	var paymentID uuid.UUID

	err := r.dbtx.QueryRow(ctx,
		`INSERT INTO payments (order_id, amount, currency, method, status,
			transaction_id, card_last_four, card_holder_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		payment.OrderID, payment.Amount.Amount.String(), payment.Amount.Currency.String(),
		string(payment.Method), string(payment.Status),
		payment.TransactionID, payment.CardLastFour, payment.CardHolderName,
	).Scan(&paymentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, domain.ErrDuplicatePayment
		}
		return uuid.Nil, fmt.Errorf("dbtx.QueryRow: %w", err)
	}

	return paymentID, nil
}

func (r *paymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) error {
	if paymentID == uuid.Nil {
		return fmt.Errorf("paymentID is empty")
	}

	if status == "" {
		return fmt.Errorf("status is empty")
	}

	cmdTag, err := r.dbtx.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`,
		paymentID, string(status))
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

func scanPayment(row pgx.Row) (domain.Payment, error) {
	var (
		p           domain.Payment
		amountStr   string
		currencyStr string
		methodStr   string
		statusStr   string
	)

	err := row.Scan(&p.ID, &p.OrderID, &amountStr, &currencyStr, &methodStr, &statusStr,
		&p.TransactionID, &p.CardLastFour, &p.CardHolderName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	p.Amount, err = mapMoney(amountStr, currencyStr)
	if err != nil {
		return p, fmt.Errorf("mapMoney: %w", err)
	}

	p.Method, err = domain.ToPaymentMethod(methodStr)
	if err != nil {
		return p, fmt.Errorf("domain.ToPaymentMethod[%s]: %w", methodStr, err)
	}

	p.Status, err = domain.ToPaymentStatus(statusStr)
	if err != nil {
		return p, fmt.Errorf("domain.ToPaymentStatus[%s]: %w", statusStr, err)
	}

	return p, nil
}
