// Package cli provides common initialization shared by cmd/clinic and
// cmd/clinic-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"clinic/internal/amqp"
	"clinic/internal/backend"
	"clinic/internal/config"
	"clinic/internal/log"
	"clinic/internal/sheets"
	gsheet "clinic/internal/sheets/google"
	sheetsmem "clinic/internal/sheets/memory"
	"clinic/internal/storage"
)

// SetupLogger builds the process logger from cfg and sets it as the slog
// default. An unparsable level falls back to info.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.DefaultConfig().Level
	}
	logger := log.New(log.Config{
		Level:     level,
		Component: component,
		Format:    cfg.LogFormat,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore creates the configured medium and the persistence store on top
// of it. The returned cleanup releases the medium.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*storage.Store, func(), error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := backend.NewFactory(logger).CreateMedium(ctx, bcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s medium: %w", bcfg.Type, err)
	}
	cleanup := func() {
		if res.Cleanup == nil {
			return
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Failed to close storage medium", log.FieldBackend, bcfg.Type.String(), log.FieldError, err)
		}
	}
	return storage.New(res.Medium, logger), cleanup, nil
}

// OpenWorkerStore opens the store for a long-running reader that must see
// writes made by other processes. The read cache is never applied.
func OpenWorkerStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*storage.Store, func(), error) {
	uncached := *cfg
	uncached.CacheEnabled = false
	return OpenStore(ctx, &uncached, logger)
}

// OpenAMQP connects to the broker when AMQP_URL is set. It returns nil
// when messaging is disabled.
func OpenAMQP(cfg *config.Config, logger *log.Logger) (*amqp.Client, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	return client, nil
}

// OpenReportWriter returns the Google Sheets writer when a spreadsheet is
// configured and an in-memory writer otherwise.
func OpenReportWriter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.ReportWriter, error) {
	if !cfg.SheetsEnabled() {
		logger.InfoContext(ctx, "Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
		return sheetsmem.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleReportSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("google sheets: %w", err)
	}
	logger.InfoContext(ctx, "Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
