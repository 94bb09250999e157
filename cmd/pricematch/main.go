// Command pricematch prices an inquiry workbook against a price-list
// file in one shot, without the server or the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/quinworks/pricematch/internal/catalog"
	"github.com/quinworks/pricematch/internal/config"
	"github.com/quinworks/pricematch/internal/embedding"
	"github.com/quinworks/pricematch/internal/match"
	"github.com/quinworks/pricematch/internal/normalize"
	"github.com/quinworks/pricematch/internal/workbook"
)

func main() {
	var (
		pricelistPath = flag.String("pricelist", "", "price list file (.xlsx or .csv)")
		inquiryPath   = flag.String("inquiry", "", "inquiry workbook (.xlsx)")
		outDir        = flag.String("out", ".", "output directory")
	)

	flag.Parse()

	if *pricelistPath == "" || *inquiryPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, *pricelistPath, *inquiryPath, *outDir); err != nil {
		slog.Error("matching failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, pricelistPath, inquiryPath, outDir string) error {
	records, err := loadPricelist(pricelistPath)
	if err != nil {
		return err
	}

	slog.Info("loaded price list", "items", len(records))

	inquiryFile, err := os.Open(inquiryPath)
	if err != nil {
		return fmt.Errorf("opening inquiry: %w", err)
	}
	defer inquiryFile.Close()

	inquiry, err := workbook.ReadInquiry(inquiryFile)
	if err != nil {
		return err
	}
	defer inquiry.Close()

	slog.Info("scanned inquiry", "items_to_price", len(inquiry.Records()))

	embedClient := embedding.NewClient(
		cfg.Embedding.BaseURL,
		cfg.Embedding.APIKey,
		embedding.WithModel(cfg.Embedding.Model),
		embedding.WithDimension(cfg.Embedding.Dimension),
		embedding.WithBatchSize(cfg.Embedding.BatchSize),
		embedding.WithConcurrency(cfg.Embedding.Concurrency),
	)

	normalizer := normalize.New(normalize.Profile(cfg.Normalize.Profile))

	engine := match.NewEngine(embedClient, normalizer, match.Config{
		FallbackEnabled:   cfg.Match.FallbackEnabled,
		FallbackThreshold: cfg.Match.FallbackThreshold,
		FallbackTopK:      cfg.Match.FallbackTopK,
		FallbackStrategy:  match.Strategy(cfg.Match.FallbackStrategy),
		TaxonomyEnabled:   cfg.Match.TaxonomyEnabled,
	})

	results, err := engine.Run(context.Background(), records, inquiry.Records())
	if err != nil {
		return err
	}

	slog.Info("matched inquiry items", "results", len(results))

	if err := inquiry.Apply(results, cfg.Match.TaxonomyEnabled); err != nil {
		return err
	}

	outPath := filepath.Join(outDir, time.Now().Format("Output_03-04-PM_01-02-06.xlsx"))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if _, err := inquiry.WriteTo(out); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	slog.Info("wrote priced workbook", "path", outPath)

	return nil
}

func loadPricelist(path string) ([]match.CatalogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening price list: %w", err)
	}
	defer f.Close()

	var params []catalog.ImportParams

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		params, err = workbook.ReadPricelistCSV(f)
	} else {
		params, err = workbook.ReadPricelist(f)
	}

	if err != nil {
		return nil, err
	}

	records := make([]match.CatalogRecord, len(params))
	for i, p := range params {
		records[i] = match.CatalogRecord{
			Description: p.Description,
			Rate:        p.Rate,
			Unit:        p.Unit,
			Category:    p.Category,
			Subcategory: p.Subcategory,
		}
	}

	return records, nil
}
