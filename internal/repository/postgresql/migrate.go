package postgresql

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	slog.Info("PostgreSQL schema applied")
	return nil
}
