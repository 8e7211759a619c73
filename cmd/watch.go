package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AngelP17/ticketing/internal/config"
	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the Excel file and sync on every change",
	Long: "Watches the workbook with fsnotify and runs a sync pass on each " +
		"write, debounced. A fixed-interval pass (SYNC_INTERVAL) backstops " +
		"editors that replace the file instead of writing it in place.",
	RunE: runWatch,
}

// editors save .xlsx as delete+rename; give them time to finish
const debounce = 2 * time.Second

func runWatch(cmd *cobra.Command, args []string) error {
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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer watcher.Close()
	// watch the directory: saves that replace the file drop the watch on
	// the file itself
	dir := filepath.Dir(cfg.ExcelFile)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target, err := filepath.Abs(cfg.ExcelFile)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", cfg.ExcelFile, err)
	}

	log.Info("watching spreadsheet",
		zap.String("file", cfg.ExcelFile),
		zap.Duration("interval", cfg.SyncInterval),
	)

	runPass := func(reason string) {
		report, err := syncer.Run(ctx)
		switch {
		case errors.Is(err, errs.ErrSyncInProgress):
			log.Debug("sync already running, skipping", zap.String("trigger", reason))
		case errors.Is(err, errs.ErrSourceUnavailable):
			log.Warn("spreadsheet unavailable, nothing synced", zap.String("trigger", reason))
		case err != nil:
			log.Error("sync failed", zap.String("trigger", reason), zap.Error(err))
		default:
			log.Info("sync pass done",
				zap.String("trigger", reason),
				zap.Int("inserted", report.Inserted),
				zap.Int("updated", report.Updated),
				zap.Int("rejected", report.Rejected),
			)
		}
	}

	// initial pass, как и старый пайплайн: сразу при старте
	runPass("startup")

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()
	fired := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() {
				select {
				case fired <- struct{}{}:
				default:
				}
			})
		case <-fired:
			runPass("fsnotify")
		case <-ticker.C:
			runPass("interval")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
