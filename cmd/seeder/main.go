// cmd/seeder/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/config"
	"github.com/unclebandit/campaign-manager/internal/db"
	"github.com/unclebandit/campaign-manager/internal/logger"
)

var envFile string

func main() {
	root := &cobra.Command{
		Use:   "seeder",
		Short: "Campaign database maintenance",
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to .env file")
	root.AddCommand(migrateCmd(), seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect loads config and opens the pool shared by both commands.
func connect() (*sqlx.DB, *zap.Logger, error) {
	cfg, _, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	zlog, err := logger.New(cfg.App.Env, cfg.Log.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	sqlDB, err := db.Open(cfg.DB, zlog)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return sqlDB, zlog, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the campaigns table and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, zlog, err := connect()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := db.Migrate(context.Background(), sqlDB); err != nil {
				return err
			}
			zlog.Info("Migration complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo campaigns into an empty table",
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, zlog, err := connect()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			ctx := context.Background()
			if err := db.Migrate(ctx, sqlDB); err != nil {
				return err
			}
			n, err := db.Seed(ctx, sqlDB)
			if err != nil {
				return err
			}
			if n == 0 {
				zlog.Info("Campaigns already present, skipping seed")
				return nil
			}
			zlog.Info("Seeded demo campaigns", zap.Int("count", n))
			return nil
		},
	}
}
