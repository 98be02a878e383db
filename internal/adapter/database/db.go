package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

type System string

const (
	SystemSQLite   System = "sqlite"
	SystemPostgres System = "postgres"
)

// DB is the handle shared by the repositories. QueryBuilder already carries
// the placeholder format of the underlying System.
type DB struct {
	*sql.DB
	QueryBuilder squirrel.StatementBuilderType
	System       System
}

type Options struct {
	DSN             string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func New(sqlDB *sql.DB, system System) *DB {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if system == SystemPostgres {
		format = squirrel.Dollar
	}

	return &DB{
		DB:           sqlDB,
		QueryBuilder: squirrel.StatementBuilder.PlaceholderFormat(format),
		System:       system,
	}
}

// Open opens driverName traced by otelsql, with every statement logged
// through logger.
func Open(driverName string, system System, opts Options, logger zerolog.Logger) (*sql.DB, error) {
	otelOpts := []otelsql.Option{
		otelsql.WithDBSystem(string(system)),
		otelsql.WithDBName(opts.Name),
	}

	tracedDB, err := otelsql.Open(driverName, opts.DSN,
		append(otelOpts, otelsql.WithTracerProvider(otel.GetTracerProvider()))...,
	)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", system, err)
	}

	// only the traced driver is kept, the pool below replaces this one
	driver := tracedDB.Driver()
	if err := tracedDB.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", system, err)
	}

	db := sqldblogger.OpenDriver(opts.DSN, driver, zerologadapter.New(logger),
		sqldblogger.WithSQLQueryFieldname("sql"),
	)

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}

	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	// same attributes as the closed pool, observed after it
	otelsql.ReportDBStatsMetrics(db, otelOpts...)

	return db, nil
}

// RunMigrations applies the embedded migrations of system through driver.
// The migrate instance is not closed since that would close the database.
func RunMigrations(driver migratedb.Driver, system System) error {
	source, err := iofs.New(migrations, "migrations/"+string(system))
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(system), driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Ping checks the connection with a bounded timeout.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}
