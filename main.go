package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/currency"

	"github.com/pharmakart/backend/internal/config"
	"github.com/pharmakart/backend/internal/db"
	"github.com/pharmakart/backend/internal/events"
	"github.com/pharmakart/backend/internal/port"
	"github.com/pharmakart/backend/internal/repository"
	"github.com/pharmakart/backend/internal/server"
	"github.com/pharmakart/backend/internal/service"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		log.Fatalf("parse CURRENCY %q: %v", cfg.Currency, err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("apply schema: %v", err)
	}

	// A nil publisher disables event publishing, order flows do not notice.
	var publisher port.OrderEventPublisher
	if cfg.RabbitURL != "" {
		rabbit, err := events.NewRabbitPublisher(cfg.RabbitURL, cfg.OrderExchange)
		if err != nil {
			log.Fatalf("connect to rabbitmq: %v", err)
		}
		defer rabbit.Close()

		publisher = rabbit
	}

	products := repository.NewProduct(pool)
	ledger := repository.NewStockLedger(pool)
	carts := repository.NewCart(pool)
	orders := repository.NewOrder(pool)
	payments := repository.NewPayment(pool)
	prescriptions := repository.NewPrescription(pool)

	orderService := service.NewOrder(orders, products, ledger, carts, prescriptions, publisher)

	svc := server.Services{
		Products:      service.NewProduct(products),
		Carts:         service.NewCart(carts, products, prescriptions),
		Orders:        orderService,
		Payments:      service.NewPayment(payments, orderService),
		Prescriptions: service.NewPrescription(prescriptions, products),
	}

	router := server.NewRouter(svc, cfg.JWTSecret, unit)

	log.Printf("listening on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
