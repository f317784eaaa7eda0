package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// ApplySchema runs the embedded schema against a pool. Statements are
// idempotent (CREATE ... IF NOT EXISTS), so re-running is safe.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Migrate applies the schema on startup.
func (db *DB) Migrate(ctx context.Context) error {
	if err := ApplySchema(ctx, db.Pool); err != nil {
		return err
	}

	db.logger.Info("database schema applied")
	return nil
}
