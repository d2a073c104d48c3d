package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// every table. Tests are skipped when the variable is unset.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))
	require.NoError(t, truncateAllTables(ctx, db))
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tables := []string{
		"leave_comments",
		"leave_requests",
		"attendances",
		"leave_balances",
		"employees",
		"shifts",
		"departments",
	}
	for _, table := range tables {
		if _, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}
