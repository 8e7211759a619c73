package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AngelP17/ticketing/internal/config"
	"github.com/AngelP17/ticketing/internal/database"
	"github.com/AngelP17/ticketing/internal/etl"
	"github.com/AngelP17/ticketing/internal/kafka"
	"github.com/AngelP17/ticketing/internal/logging"
	"github.com/AngelP17/ticketing/internal/searchindex"
	"github.com/AngelP17/ticketing/internal/spreadsheet"
	"github.com/AngelP17/ticketing/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one Excel → store sync pass and print the report",
	RunE:  runSync,
}

// buildSyncer собирает синхронизатор для команд sync и watch.
func buildSyncer(cfg *config.Config, log *zap.Logger) (*etl.Syncer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	return etl.NewSyncer(etl.Deps{
		Source:   spreadsheet.NewFileSource(cfg.ExcelFile, cfg.ExcelSheet),
		Store:    store.NewTicketStore(db),
		Producer: kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket, log),
		Indexer:  searchindex.NewClient(cfg.SearchServiceURL, log),
		Logger:   log,
	}), nil
}

func runSync(cmd *cobra.Command, args []string) error {
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

	syncer, err := buildSyncer(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
