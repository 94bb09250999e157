package match

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/quinworks/pricematch/internal/embedding"
	"github.com/quinworks/pricematch/internal/normalize"
)

// Engine runs the matching pipeline: normalize, embed both sides,
// compute similarities, select (with optional lexical fallback).
type Engine struct {
	embedder   embedding.Embedder
	normalizer *normalize.Normalizer
	cfg        Config
}

func NewEngine(embedder embedding.Embedder, normalizer *normalize.Normalizer, cfg Config) *Engine {
	if cfg.FallbackTopK <= 0 {
		cfg.FallbackTopK = DefaultConfig().FallbackTopK
	}

	return &Engine{
		embedder:   embedder,
		normalizer: normalizer,
		cfg:        cfg,
	}
}

// Run matches every usable query record against the catalog and returns
// one result per surviving query item, in query input order. All state
// is local to the call; nothing persists across runs.
//
// Per-item normalization failures drop the item and the run continues.
// Embedding failures, degenerate vectors, and dimension mismatches abort
// the whole run: a partially embedded vector space cannot be trusted
// item by item.
func (e *Engine) Run(ctx context.Context, catalog []CatalogRecord, queries []QueryRecord) ([]Result, error) {
	items := e.buildCatalog(catalog)
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	queryItems := e.buildQueries(queries)
	if len(queryItems) == 0 {
		return nil, ErrEmptyQuerySet
	}

	catalogVecs, queryVecs, err := e.embedBoth(ctx, items, queryItems)
	if err != nil {
		return nil, err
	}

	matrix, err := cosineMatrix(queryVecs, catalogVecs)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(queryItems))
	for qi, query := range queryItems {
		results = append(results, e.selectRow(query, matrix[qi], items))
	}

	return results, nil
}

// buildCatalog filters and normalizes catalog records. Items without a
// positive rate or with an empty normalized description never reach
// embedding; catalog IDs are contiguous over the survivors.
func (e *Engine) buildCatalog(records []CatalogRecord) []CatalogItem {
	items := make([]CatalogItem, 0, len(records))

	for i, rec := range records {
		if rec.Rate.Sign() <= 0 {
			slog.Warn("dropping catalog record without a positive rate",
				"record", i, "description", rec.Description)
			continue
		}

		normalized := e.normalizer.Normalize(rec.Description)
		if normalized == "" {
			slog.Warn("dropping catalog record with empty normalized description",
				"record", i, "description", rec.Description)
			continue
		}

		items = append(items, CatalogItem{
			ID:             len(items),
			RawDescription: rec.Description,
			NormalizedText: normalized,
			Rate:           rec.Rate,
			Category:       rec.Category,
			Subcategory:    rec.Subcategory,
		})
	}

	return items
}

func (e *Engine) buildQueries(records []QueryRecord) []QueryItem {
	items := make([]QueryItem, 0, len(records))

	for i, rec := range records {
		normalized := e.normalizer.Normalize(rec.Description)
		if normalized == "" {
			slog.Warn("dropping query record with empty normalized description",
				"record", i, "description", rec.Description)
			continue
		}

		items = append(items, QueryItem{
			ID:             len(items),
			RawDescription: rec.Description,
			NormalizedText: normalized,
			Dest:           rec.Dest,
		})
	}

	return items
}

// embedBoth runs the catalog and query embedding passes concurrently.
// Both must complete before similarity computation; either failing
// fails the run.
func (e *Engine) embedBoth(ctx context.Context, catalog []CatalogItem, queries []QueryItem) ([][]float64, [][]float64, error) {
	catalogTexts := make([]string, len(catalog))
	for i, item := range catalog {
		catalogTexts[i] = item.NormalizedText
	}

	queryTexts := make([]string, len(queries))
	for i, item := range queries {
		queryTexts[i] = item.NormalizedText
	}

	var catalogVecs, queryVecs [][]float64

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		vecs, err := e.embedder.Embed(ctx, catalogTexts, embedding.RoleDocument)
		if err != nil {
			return fmt.Errorf("embedding catalog: %w", err)
		}

		catalogVecs = vecs

		return nil
	})

	g.Go(func() error {
		vecs, err := e.embedder.Embed(ctx, queryTexts, embedding.RoleQuery)
		if err != nil {
			return fmt.Errorf("embedding queries: %w", err)
		}

		queryVecs = vecs

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return catalogVecs, queryVecs, nil
}

// selectRow picks the best catalog candidate for one query row. The
// fallback reranker only runs when the top embedding similarity is
// strictly below the threshold; otherwise the embedding match stands.
func (e *Engine) selectRow(query QueryItem, row []float64, catalog []CatalogItem) Result {
	ranked := rankRow(row)
	bestIdx := ranked[0]
	bestScore := row[bestIdx]
	method := MethodEmbedding

	if e.cfg.FallbackEnabled && bestScore < e.cfg.FallbackThreshold {
		bestIdx, bestScore = e.rerank(query, row, ranked, catalog)
		method = MethodEmbeddingFuzzy
	}

	chosen := catalog[bestIdx]

	result := Result{
		QueryID:            query.ID,
		CatalogID:          chosen.ID,
		MatchedDescription: chosen.RawDescription,
		Rate:               chosen.Rate,
		Confidence:         round3(bestScore),
		Method:             method,
		Dest:               query.Dest,
	}

	if e.cfg.TaxonomyEnabled {
		result.Category = chosen.Category
		result.Subcategory = chosen.Subcategory
	}

	return result
}

// round3 rounds half away from zero to 3 decimals. Applied once, at
// result emission; downstream treats confidence as a final value.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
