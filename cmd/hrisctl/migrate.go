package main

import (
	"fmt"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/mongodb"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema or create the MongoDB indexes for DB_DRIVER",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			switch cfg.Database.Driver {
			case config.DriverPostgres:
				db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
				if err != nil {
					return fmt.Errorf("failed to connect to postgres: %w", err)
				}
				defer db.Close()
				if err := postgresql.Migrate(ctx, db); err != nil {
					return err
				}
				fmt.Fprintf(out, "Applied schema to %s@%s/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Name)

			case config.DriverMongoDB:
				m, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
				if err != nil {
					return fmt.Errorf("failed to connect to mongodb: %w", err)
				}
				defer m.Close(ctx)
				if err := mongodb.EnsureIndexes(ctx, m); err != nil {
					return err
				}
				fmt.Fprintf(out, "Ensured indexes on database %s\n", cfg.Mongo.Database)

			default:
				fmt.Fprintf(out, "Nothing to migrate for driver %q\n", cfg.Database.Driver)
			}
			return nil
		},
	}
}
