package sqlite

import (
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"todos/internal/adapter/database"
)

const DriverName = "sqlite3"

// NewDB opens the sqlite database at opts.DSN and brings its schema up to date.
func NewDB(opts database.Options, logger zerolog.Logger) (*database.DB, error) {
	sqlDB, err := database.Open(DriverName, database.SystemSQLite, opts, logger)
	if err != nil {
		return nil, err
	}

	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	if err := database.RunMigrations(driver, database.SystemSQLite); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return database.New(sqlDB, database.SystemSQLite), nil
}
