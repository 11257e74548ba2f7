package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/domain"
	"github.com/pharmakart/backend/internal/port"
)

type productRepository struct {
	dbtx db.DBTX
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{dbtx: pool}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{dbtx: tx}
}

// NewStockLedger shares the products table with the product repository but
// exposes only the two atomic stock operations.
func NewStockLedger(pool *pgxpool.Pool) port.StockLedger {
	return &productRepository{dbtx: pool}
}

func NewStockLedgerWithTx(tx pgx.Tx) port.StockLedger {
	return &productRepository{dbtx: tx}
}

const productColumns = `id, name, description, category, price_amount::text, price_currency,
	stock, requires_prescription, image_url, created_at, updated_at`

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	row := r.dbtx.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, domain.ErrProductNotFound
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	rows, err := r.dbtx.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1 = '' OR category = $1)
		   AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		   AND ($3::boolean IS NULL OR requires_prescription = $3)
		 ORDER BY name`,
		filter.Category, filter.NamePattern, filter.RequiresPrescription)
	if err != nil {
		return nil, fmt.Errorf("dbtx.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if err := product.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("product.Validate: %w", err)
	}

	var productID uuid.UUID

	err := r.dbtx.QueryRow(ctx,
		`INSERT INTO products (name, description, category, price_amount, price_currency,
			stock, requires_prescription, image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		product.Name, product.Description, product.Category,
		product.Price.Amount.String(), product.Price.Currency.String(),
		product.Stock, product.RequiresPrescription, product.ImageURL,
	).Scan(&productID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("dbtx.QueryRow: %w", err)
	}

	return productID, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	if product.ID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	if err := product.Validate(); err != nil {
		return fmt.Errorf("product.Validate: %w", err)
	}

	cmdTag, err := r.dbtx.Exec(ctx,
		`UPDATE products
		 SET name = $2, description = $3, category = $4, price_amount = $5,
		     price_currency = $6, requires_prescription = $7, image_url = $8,
		     updated_at = now()
		 WHERE id = $1`,
		product.ID, product.Name, product.Description, product.Category,
		product.Price.Amount.String(), product.Price.Currency.String(),
		product.RequiresPrescription, product.ImageURL)
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	cmdTag, err := r.dbtx.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Reserve is a single conditional update, the affected-row count tells a
// concurrent loser apart from a satisfied reservation. There is no
// read-then-write window.
func (r *productRepository) Reserve(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %d", qty)
	}

	cmdTag, err := r.dbtx.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now()
		 WHERE id = $1 AND stock >= $2`,
		productID, qty)
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.dbtx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return fmt.Errorf("dbtx.QueryRow: %w", err)
		}

		if !exists {
			return domain.ErrProductNotFound
		}

		return domain.ErrInsufficientStock
	}

	return nil
}

func (r *productRepository) Release(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %d", qty)
	}

	cmdTag, err := r.dbtx.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		productID, qty)
	if err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p           domain.Product
		amountStr   string
		currencyStr string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &amountStr, &currencyStr,
		&p.Stock, &p.RequiresPrescription, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	p.Price, err = mapMoney(amountStr, currencyStr)
	if err != nil {
		return p, fmt.Errorf("mapMoney: %w", err)
	}

	return p, nil
}
