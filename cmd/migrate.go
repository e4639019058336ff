package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tokamak-network/chainops-backend/internal/logger"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/connection"
	"github.com/tokamak-network/chainops-backend/pkg/infrastructure/postgres/migrations"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string

	migrateCmd := &cobra.Command{
		Use:       "migrate [up|down|status] [version]",
		Short:     "Manage the postgres schema",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(os.Getenv("APP_ENV"))
			defer logger.Sync()

			if databaseURL == "" {
				databaseURL = os.Getenv("POSTGRES_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("POSTGRES_URL is required")
			}

			db, err := connection.Init(databaseURL)
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			ctx := cmd.Context()
			switch args[0] {
			case "up":
				return migrations.Up(ctx, sqlDB)
			case "down":
				var target int64
				if len(args) == 2 {
					target, err = strconv.ParseInt(args[1], 10, 64)
					if err != nil {
						return fmt.Errorf("invalid target version %q: %w", args[1], err)
					}
				}
				return migrations.Down(ctx, sqlDB, target)
			case "status":
				return migrations.Status(ctx, sqlDB)
			default:
				return fmt.Errorf("unknown migrate action %q", args[0])
			}
		},
	}
	migrateCmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection URL (defaults to POSTGRES_URL)")
	return migrateCmd
}
