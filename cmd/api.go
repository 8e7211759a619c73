package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/AngelP17/ticketing/internal/application"
	"github.com/AngelP17/ticketing/internal/config"
	"github.com/AngelP17/ticketing/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the dashboard HTTP API",
	RunE:  runAPI,
}

func runAPI(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	app, err := application.NewAPI(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}
