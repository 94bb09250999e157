// Package match is the semantic matching engine: it assigns each
// unpriced inquiry item the rate of its best-matching catalog entry
// using embedding similarity with a lexical fallback.
package match

import (
	"github.com/shopspring/decimal"
)

// CatalogRecord is a plain priced record as produced by a catalog
// source (database, workbook, CSV). Records without a usable rate or
// description are dropped before indexing.
type CatalogRecord struct {
	Description string
	Rate        decimal.Decimal
	Unit        string
	Category    string
	Subcategory string
}

// QueryRecord is an unpriced line item. Dest is an opaque handle to the
// destination slot the result must eventually populate; the engine
// round-trips it untouched.
type QueryRecord struct {
	Description string
	Dest        any
}

// CatalogItem is a catalog record that survived filtering, indexed by
// insertion order. Immutable for the duration of a run.
type CatalogItem struct {
	ID             int
	RawDescription string
	NormalizedText string
	Rate           decimal.Decimal
	Category       string
	Subcategory    string
}

// QueryItem is a query record that survived filtering.
type QueryItem struct {
	ID             int
	RawDescription string
	NormalizedText string
	Dest           any
}

// Method tags how a match was decided.
type Method string

const (
	MethodEmbedding      Method = "embedding"
	MethodEmbeddingFuzzy Method = "embedding+fuzzy"
)

// Result is the match for one query item.
type Result struct {
	QueryID            int
	CatalogID          int
	MatchedDescription string
	Rate               decimal.Decimal
	// Confidence is the winning score rounded to 3 decimals, half away
	// from zero. It is a display value, not meant for further math.
	Confidence  float64
	Method      Method
	Category    string
	Subcategory string
	Dest        any
}

// Strategy selects the lexical measure used by the fallback reranker.
// Each strategy carries its own blend weights; the pairing is fixed.
type Strategy string

const (
	StrategyJaccard Strategy = "jaccard"
	StrategyFuzzy   Strategy = "fuzzy"
)

// Config carries the engine's tunables.
type Config struct {
	FallbackEnabled   bool
	FallbackThreshold float64
	FallbackTopK      int
	FallbackStrategy  Strategy
	TaxonomyEnabled   bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		FallbackEnabled:   true,
		FallbackThreshold: 0.4,
		FallbackTopK:      5,
		FallbackStrategy:  StrategyJaccard,
	}
}
