package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"transit-agent/config"
	"transit-agent/corpus"
	apperrors "transit-agent/errors"
	"transit-agent/llmclient"
	"transit-agent/matching"
	"transit-agent/respond"
	"transit-agent/web"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	provider, err := buildCorpusProvider(ctx, cfg, logger)
	if err != nil {
		// Serving synthetic answers silently would be worse than failing:
		// corpus-load failure is fatal unless the fixture flag is set.
		if cfg.EnableFixtureCorpus {
			logger.Warn("Corpus unavailable, serving fixture corpus (ENABLE_FIXTURE_CORPUS is set)", zap.Error(err))
			provider = corpus.NewFixtureStore()
		} else {
			logger.Fatal("Failed to load corpus", zap.Error(err))
		}
	}

	records, err := provider.ListRecords(ctx)
	if err != nil {
		logger.Fatal("Failed to read corpus snapshot", zap.Error(err))
	}
	registry := corpus.NewLineRegistry(records, cfg.ExtraValidLines)
	logger.Info("Corpus loaded",
		zap.Int("records", len(records)),
		zap.Int("known_lines", registry.Size()))

	client := llmclient.New(cfg, logger)
	engine := matching.NewEngine(cfg, provider, client, logger)
	validator := respond.NewValidator(cfg, registry)

	responder, err := respond.NewResponder(cfg, engine, client, validator, logger)
	if err != nil {
		logger.Fatal("Failed to initialize responder", zap.Error(err))
	}

	webServer := web.NewServer(responder, logger, cfg)

	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting transit inquiry server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}

// buildCorpusProvider prefers Postgres when configured and falls back to the
// watched corpus file otherwise.
func buildCorpusProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (corpus.Provider, error) {
	if cfg.DatabaseURL != "" {
		store, err := corpus.NewPostgresStore(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, apperrors.WrapError(err, "ensure corpus schema")
		}
		return store, nil
	}

	store, err := corpus.NewFileStore(cfg.CorpusPath, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Watch(ctx); err != nil {
		logger.Warn("Corpus file watch unavailable, reload on restart only", zap.Error(err))
	}
	return store, nil
}
