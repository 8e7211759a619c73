package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/AngelP17/ticketing/internal/config"
	"github.com/AngelP17/ticketing/internal/database"
	"github.com/AngelP17/ticketing/internal/spreadsheet"
	"github.com/AngelP17/ticketing/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export all tickets from the store into a new workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	ticketStore := store.NewTicketStore(db)
	tickets, total, err := ticketStore.List(context.Background(), store.Filter{})
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	if err := spreadsheet.WriteFile(args[0], cfg.ExcelSheet, tickets); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Printf("export: wrote %d tickets to %s", total, args[0])
	return nil
}
