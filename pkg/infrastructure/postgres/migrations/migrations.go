// Package migrations holds the versioned postgres schema, applied with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/tokamak-network/chainops-backend/internal/logger"
)

//go:embed *.sql
var files embed.FS

const migrateTimeout = time.Minute

func configure() error {
	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}
	return nil
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := configure(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	logger.Info("Applying database migrations")
	if err := goose.UpContext(runCtx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("Database migrations applied")
	return nil
}

// Down rolls back the latest migration, or down to targetVersion when it is
// positive.
func Down(ctx context.Context, db *sql.DB, targetVersion int64) error {
	if err := configure(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	if targetVersion > 0 {
		if err := goose.DownToContext(runCtx, db, ".", targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
		return nil
	}
	if err := goose.DownContext(runCtx, db, "."); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}
	return nil
}

func Status(ctx context.Context, db *sql.DB) error {
	if err := configure(); err != nil {
		return err
	}
	if err := goose.StatusContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}
