package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AngelP17/ticketing/internal/auth"
	"github.com/AngelP17/ticketing/internal/config"
	"github.com/AngelP17/ticketing/internal/database"
	"github.com/AngelP17/ticketing/internal/etl"
	"github.com/AngelP17/ticketing/internal/handler"
	"github.com/AngelP17/ticketing/internal/kafka"
	"github.com/AngelP17/ticketing/internal/router"
	"github.com/AngelP17/ticketing/internal/searchindex"
	"github.com/AngelP17/ticketing/internal/spreadsheet"
	"github.com/AngelP17/ticketing/internal/store"
	"go.uber.org/zap"
)

// API приложение: HTTP сервер дашборда (режим api).
type API struct {
	cfg      *config.Config
	log      *zap.Logger
	httpSrv  *http.Server
	producer *kafka.Producer
}

// NewAPI собирает приложение: миграции, стор, auth-провайдер, синхронизатор,
// роутер.
func NewAPI(cfg *config.Config, log *zap.Logger) (*API, error) {
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

	ticketStore := store.NewTicketStore(db)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket, log)
	searchClient := searchindex.NewClient(cfg.SearchServiceURL, log)

	var provider auth.Provider
	switch cfg.AuthBackend {
	case "database":
		provider = auth.NewGormProvider(db)
	default:
		provider = auth.NewFileProvider(cfg.UsersFile)
	}

	syncer := etl.NewSyncer(etl.Deps{
		Source:   spreadsheet.NewFileSource(cfg.ExcelFile, cfg.ExcelSheet),
		Store:    ticketStore,
		Producer: producer,
		Indexer:  searchClient,
		Logger:   log,
	})

	h := router.New(router.Deps{
		Tickets:   handler.NewTicketHandler(ticketStore, producer, searchClient),
		Auth:      handler.NewAuthHandler(provider, cfg.JWTSecret),
		Sync:      handler.NewSyncHandler(syncer),
		Provider:  provider,
		JWTSecret: cfg.JWTSecret,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &API{
		cfg:      cfg,
		log:      log,
		httpSrv:  httpSrv,
		producer: producer,
	}, nil
}

// Run запускает HTTP сервер, блокируется до отмены ctx.
func (a *API) Run(ctx context.Context) error {
	host := a.cfg.AppHost
	if host == "0.0.0.0" {
		host = "localhost"
	}
	base := "http://" + host + ":" + a.cfg.HTTPPort
	a.log.Info("HTTP server listening", zap.String("addr", a.httpSrv.Addr))
	a.log.Info("endpoints",
		zap.String("swagger", base+"/swagger"),
		zap.String("health", base+"/health"),
		zap.String("api", base+"/api/v1/"),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := a.producer.Close(); err != nil {
		a.log.Warn("kafka close", zap.Error(err))
	}
	return nil
}
