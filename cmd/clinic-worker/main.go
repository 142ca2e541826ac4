package main

import (
	"context"
	"os"
	"time"

	"clinic/internal/cli"
	"clinic/internal/log"
	"clinic/internal/services"
	"clinic/internal/worker"
)

func main() {
	os.Exit(run())
}

// run starts the worker and blocks until shutdown. It returns the process
// exit code once deferred cleanup has run.
func run() int {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentWorker)
	loc, _ := cfg.Location()

	logger.Info("Starting clinic-worker")

	ctx := context.Background()
	store, closeStore, err := cli.OpenWorkerStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err)
		return 1
	}
	defer closeStore()

	writer, err := cli.OpenReportWriter(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize report writer", log.FieldError, err)
		return 1
	}

	amqpClient, err := cli.OpenAMQP(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		return 1
	}

	svc := services.NewCaseService(store, nil, logger)
	exporter := services.NewReportExporter(svc, writer, logger)
	w := worker.NewReportSyncWorker(exporter, worker.Config{
		SyncInterval: cfg.SyncInterval,
		Location:     loc,
	}, logger)

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := w.Stop(ctx); err != nil {
			logger.Error("Failed to stop worker", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("Failed to close AMQP client", log.FieldError, err)
			}
		}
	})

	var source worker.EventSource
	if amqpClient != nil {
		source = amqpClient
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	if err := w.Start(shutdownCtx, source); err != nil {
		logger.Error("Failed to start worker", log.FieldError, err)
		return 1
	}

	cli.WaitForShutdown(shutdownCtx, done)
	return 0
}
