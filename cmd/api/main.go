package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/quinworks/pricematch/internal/catalog"
	catalogStore "github.com/quinworks/pricematch/internal/catalog/store"
	"github.com/quinworks/pricematch/internal/config"
	"github.com/quinworks/pricematch/internal/database"
	"github.com/quinworks/pricematch/internal/embedding"
	pricematchHttp "github.com/quinworks/pricematch/internal/http"
	catalogHandler "github.com/quinworks/pricematch/internal/http/catalog"
	matchHandler "github.com/quinworks/pricematch/internal/http/match"
	"github.com/quinworks/pricematch/internal/match"
	"github.com/quinworks/pricematch/internal/normalize"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	embedClient := embedding.NewClient(
		cfg.Embedding.BaseURL,
		cfg.Embedding.APIKey,
		embedding.WithModel(cfg.Embedding.Model),
		embedding.WithDimension(cfg.Embedding.Dimension),
		embedding.WithBatchSize(cfg.Embedding.BatchSize),
		embedding.WithConcurrency(cfg.Embedding.Concurrency),
	)

	var (
		normalizer     = normalize.New(normalize.Profile(cfg.Normalize.Profile))
		engine         = match.NewEngine(embedClient, normalizer, engineConfig(cfg))
		catalogService = catalog.NewService(catalogStore.New(db))
	)

	var (
		matchH   = matchHandler.NewHandler(engine, catalogService, cfg.Match.TaxonomyEnabled)
		catalogH = catalogHandler.NewHandler(catalogService)
	)

	router := pricematchHttp.New(matchH, catalogH, cfg.Auth.Secret)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func engineConfig(cfg *config.Config) match.Config {
	return match.Config{
		FallbackEnabled:   cfg.Match.FallbackEnabled,
		FallbackThreshold: cfg.Match.FallbackThreshold,
		FallbackTopK:      cfg.Match.FallbackTopK,
		FallbackStrategy:  match.Strategy(cfg.Match.FallbackStrategy),
		TaxonomyEnabled:   cfg.Match.TaxonomyEnabled,
	}
}
