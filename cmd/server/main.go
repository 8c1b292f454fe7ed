package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AngelCh415/sales-analytics/internal/config"
	"github.com/AngelCh415/sales-analytics/internal/httpx"
	"github.com/AngelCh415/sales-analytics/internal/ingest"
	"github.com/AngelCh415/sales-analytics/internal/metrics"
	"github.com/AngelCh415/sales-analytics/internal/store"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	maxBytes := cfg.MaxUploadMB << 20
	loader := ingest.NewLoader(cl, st, logger, cfg.FetchRetries, maxBytes)

	defaults := metrics.DefaultOptions()
	defaults.TopCustomers = cfg.TopCustomers
	defaults.TopProducts = cfg.TopProducts
	defaults.RecentOrders = cfg.RecentOrders
	svc := metrics.NewService(st, defaults)

	if cfg.MySQLDSN != "" {
		if err := preload(ctx, logger, loader, cfg); err != nil {
			logger.Error("mysql preload failed", slog.String("err", err.Error()))
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpx.NewRouter(logger, st, loader, svc, maxBytes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Error("shutdown", slog.String("err", err.Error()))
		}
	}()

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func preload(ctx context.Context, log *slog.Logger, loader *ingest.Loader, cfg config.Config) error {
	db, err := ingest.OpenMySQL(cfg.MySQLDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	ds, err := loader.FromMySQL(ctx, db, cfg.MySQLSalesTable, cfg.MySQLLinesTable)
	if err != nil {
		return err
	}
	log.Info("mysql dataset ready", slog.String("dataset", ds.ID))
	return nil
}
