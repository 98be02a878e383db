package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"todos/internal/adapter/database"
	"todos/internal/adapter/database/postgres"
	"todos/internal/adapter/database/sqlite"
	"todos/internal/adapter/http/routes"
	"todos/internal/adapter/telemetry"
	"todos/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// StartServer runs the API until ctx is cancelled, then drains in-flight
// requests and flushes telemetry.
func StartServer(ctx context.Context, cfg *config.Config, logger *config.LokiLogger) error {
	tel, err := telemetry.NewContainer(ctx, telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ExportTraces:   cfg.Telemetry.Enabled,
	}, logger.Zap())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Zap().Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	tel.AppMetrics.StartSystemMetrics(ctx, 10*time.Second)

	db, err := OpenDatabase(ctx, cfg.Database, cfg.App.Name, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	container := NewContainer(db, tel.Probe, logger, cfg.App.Version)

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TodoHandler:   container.TodoHandler,
		HealthHandler: container.HealthHandler,
	}, tel.AppMetrics, logger, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.InfoWithTrace(ctx, "Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("environment", cfg.App.Environment),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("https_enforced", cfg.Server.EnforceHTTPS))

	serveErr := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.InfoWithTrace(context.Background(), "Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// OpenDatabase opens the configured driver and applies its migrations.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig, name string, logger *config.LokiLogger) (*database.DB, error) {
	opts := database.Options{
		DSN:             cfg.DSN,
		Name:            name,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}

	sqlLogger := logger.Zerolog(os.Stdout, sqlLogLevel(logger))

	switch cfg.Driver {
	case string(database.SystemSQLite):
		return sqlite.NewDB(opts, sqlLogger)
	case string(database.SystemPostgres):
		return postgres.NewDB(ctx, opts, sqlLogger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// statements are only worth printing when the app logs at debug
func sqlLogLevel(logger *config.LokiLogger) string {
	if logger.Zap().Core().Enabled(zap.DebugLevel) {
		return "debug"
	}

	return "warn"
}
