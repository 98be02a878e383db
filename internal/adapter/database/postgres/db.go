package postgres

import (
	"context"

	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"todos/internal/adapter/database"
)

const DriverName = "pgx"

// NewDB connects to opts.DSN, verifies the connection and runs the migrations.
func NewDB(ctx context.Context, opts database.Options, logger zerolog.Logger) (*database.DB, error) {
	sqlDB, err := database.Open(DriverName, database.SystemPostgres, opts, logger)
	if err != nil {
		return nil, err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := database.RunMigrations(driver, database.SystemPostgres); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return database.New(sqlDB, database.SystemPostgres), nil
}
