package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories can run
// standalone or participate in a caller-owned transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

//go:embed schema.sql
var schema string

// Migrate applies the schema. All statements are idempotent.
func Migrate(ctx context.Context, dbtx DBTX) error {
	if _, err := dbtx.Exec(ctx, schema); err != nil {
		return fmt.Errorf("dbtx.Exec schema: %w", err)
	}

	return nil
}
