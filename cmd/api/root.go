package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "todos/internal/adapter/http"
	"todos/pkg/config"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "todos",
		Short:        "Todo list HTTP API",
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)

	return rootCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.App.Version == "dev" {
		cfg.App.Version = version
	}

	logger, err := config.NewLokiLogger(cfg.App.Name, cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.StartServer(ctx, cfg, logger); err != nil {
		logger.ErrorWithTrace(context.Background(), "Server stopped with error", zap.Error(err))
		return err
	}

	logger.InfoWithTrace(context.Background(), "Shutdown complete")

	return nil
}
