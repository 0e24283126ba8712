package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"loandash/internal/amqp"
	"loandash/internal/backend"
	"loandash/internal/config"
	"loandash/internal/engine"
	apphttp "loandash/internal/http"
	applog "loandash/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Load the portfolio snapshot from the configured backend.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger)
	result, err := factory.Load(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Portfolio load failed", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Cleanup()

	eng := engine.New(result.Dataset)

	// AMQP eventing is optional. When configured, the server publishes query
	// audit records and a dataset-loaded announcement.
	var opts apphttp.Options
	opts.CacheSize = cfg.CacheSize
	opts.CacheTTL = cfg.CacheTTL
	httpLogCfg := applog.DefaultConfig()
	httpLogCfg.Component = applog.ComponentHTTP
	opts.Logger = applog.New(httpLogCfg)

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		opts.Audit = amqpClient

		msg := amqp.NewDatasetLoadedMessage(cfg.DataBackend, result.Dataset.Len())
		if err := amqpClient.PublishDatasetLoaded(context.Background(), msg); err != nil {
			logger.Warn("Dataset loaded announcement failed", "error", err)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, eng, opts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting loandash server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"loans", result.Dataset.Len())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
