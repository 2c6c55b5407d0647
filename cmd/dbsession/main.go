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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/dbsession/internal/adapter/driven/sqldb"
	httphandler "github.com/ericfisherdev/dbsession/internal/adapter/driving/http"
	"github.com/ericfisherdev/dbsession/internal/application"
	"github.com/ericfisherdev/dbsession/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load process settings (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	logger.Info("settings loaded",
		"config_path", cfg.ConfigPath,
		"driver", cfg.Driver,
		"seal_scheme", cfg.SealScheme,
		"listen_addr", cfg.ListenAddr,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Load the connection config and open the database.
	loader := application.NewConfigLoader(cfg.Cipher(), logger)
	manager := sqldb.NewManager(cfg.DBDriver(), logger)

	sess, err := application.Bootstrap(ctx, loader, manager, cfg.ConfigPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// 4. Apply schema migrations when a directory is configured.
	if cfg.MigrationsDir != "" {
		if err := manager.Migrate(ctx, os.DirFS(cfg.MigrationsDir), "."); err != nil {
			return err
		}
	}

	// 5. Share the connection with the health endpoint.
	db := application.NewSyncConnection(manager)
	sess.DB = db

	handler := httphandler.NewServeMux(httphandler.NewHandler(db, logger), logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("dbsession started",
		"host", sess.Config.Host,
		"database", sess.Config.Database,
	)

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
