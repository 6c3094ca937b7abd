package db

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	_ "github.com/golang-migrate/migrate/v4/source/file"     // registers file://
)

// RunMigrations applies every pending up migration found in cfg.MigrationsDir
func RunMigrations(cfg config.DBConfig) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errs.Wrap(err, "failed to run migrations")
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		slog.Info("database migrated", "version", version, "dirty", dirty)
	}
	return nil
}

// RollbackMigrations reverts the given number of migrations
func RollbackMigrations(cfg config.DBConfig, steps int) error {
	if steps <= 0 {
		return errs.New("steps must be positive")
	}

	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errs.Wrapf(err, "failed to roll back %d migrations", steps)
	}
	return nil
}

func newMigrate(cfg config.DBConfig) (*migrate.Migrate, error) {
	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve migrations path")
	}

	m, err := migrate.New("file://"+dir, migrationURL(cfg))
	if err != nil {
		return nil, errs.Wrap(err, "failed to create migrate instance")
	}
	return m, nil
}

func migrationURL(cfg config.DBConfig) string {
	return "pgx5://" + strings.TrimPrefix(cfg.BuildDSN(), "postgres://")
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		slog.Warn("failed to close migrate instance", "source_error", srcErr, "db_error", dbErr)
	}
}
