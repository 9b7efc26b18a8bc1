package database

import (
	"fmt"
	"log/slog"

	// database/sql driver used by goose
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies every pending goose migration in dir
func RunMigrations(dsn, dir string) error {
	if dir == "" {
		dir = DefaultMigrationsDir
	}

	sqlDB, err := goose.OpenDBWithDriver(MigrationDriver, dsn)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToOpenMigrationDB, err)
	}
	defer func() { _ = sqlDB.Close() }()

	if err := goose.SetDialect(MigrationDriver); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetDialect, err)
	}
	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToApplyMigrations, err)
	}

	slog.Default().Info(LogMsgMigrationsApplied, "dir", dir)
	return nil
}
