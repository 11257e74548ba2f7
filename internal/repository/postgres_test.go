package repository_test

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/text/currency"

	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/domain"
)

// startPostgres runs a throwaway Postgres container shared by a suite. The
// schema is applied by connectPool, all statements are idempotent.
func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("pharmakart"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", fmt.Errorf("tcpostgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

func connectPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db.Migrate: %w", err)
	}

	return pool, nil
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func randomMoney(unit currency.Unit) domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)),
		Currency: unit,
	}
}

func randomProduct() domain.Product {
	return domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Category:    gofakeit.ProductCategory(),
		Price:       randomMoney(randomCurrency()),
		Stock:       gofakeit.Number(1, 100),
		ImageURL:    gofakeit.URL(),
	}
}

func randomOrder() domain.Order {
	currencyUnit := randomCurrency() // it has to be the same for all items
	total := decimal.Zero

	var items []domain.OrderItem
	for i := 0; i < gofakeit.Number(1, 5); i++ {
		item := domain.OrderItem{
			ProductID: uuid.New(),
			Name:      gofakeit.ProductName(),
			Quantity:  gofakeit.Number(1, 5),
			Price:     randomMoney(currencyUnit),
		}
		total = total.Add(item.Subtotal().Amount)
		items = append(items, item)
	}

	return domain.Order{
		OwnerID:         gofakeit.UUID(),
		Status:          domain.OrderStatusPending,
		ShippingAddress: gofakeit.Address().Address,
		Items:           items,
		Total: domain.Money{
			Amount:   total,
			Currency: currencyUnit,
		},
	}
}
