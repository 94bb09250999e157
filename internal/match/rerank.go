package match

import (
	"github.com/quinworks/pricematch/internal/lexical"
)

// blend weights are strategy-specific: Jaccard is a weak signal and only
// nudges the embedding score, while the token-sort ratio is trusted with
// a larger share.
const (
	jaccardEmbedWeight = 0.85
	jaccardLexWeight   = 0.15
	fuzzyEmbedWeight   = 0.7
	fuzzyLexWeight     = 0.3
)

// rerank rescues low-confidence rows with lexical similarity. It only
// considers the topK highest-embedding candidates, never the full
// catalog. Ties on the blended score go to the lower catalog index.
func (e *Engine) rerank(query QueryItem, row []float64, ranked []int, catalog []CatalogItem) (int, float64) {
	topK := e.cfg.FallbackTopK
	if topK > len(ranked) {
		topK = len(ranked)
	}

	bestIdx := -1
	bestScore := 0.0

	for _, ci := range ranked[:topK] {
		var lex float64

		switch e.cfg.FallbackStrategy {
		case StrategyFuzzy:
			lex = lexical.TokenSortRatio(query.NormalizedText, catalog[ci].NormalizedText)
		default:
			lex = lexical.TokenJaccard(query.NormalizedText, catalog[ci].NormalizedText)
		}

		blended := e.blend(row[ci], lex)

		if bestIdx == -1 || blended > bestScore || (blended == bestScore && ci < bestIdx) {
			bestIdx = ci
			bestScore = blended
		}
	}

	return bestIdx, bestScore
}

func (e *Engine) blend(embed, lex float64) float64 {
	if e.cfg.FallbackStrategy == StrategyFuzzy {
		return fuzzyEmbedWeight*embed + fuzzyLexWeight*lex
	}

	return jaccardEmbedWeight*embed + jaccardLexWeight*lex
}
