// Package lexical provides the string-similarity measures used by the
// fallback reranker: token-set Jaccard and a Levenshtein-based
// token-sort ratio. All scores are in [0, 1].
package lexical

import (
	"sort"
	"strings"
	"unicode"
)

// tokenSet splits text on non-alphanumeric runes and lowercases tokens.
func tokenSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}

	return set
}

// TokenJaccard returns |A ∩ B| / |A ∪ B| over the word-token sets of the
// two strings. Two empty sets score 0.
func TokenJaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0

	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// TokenSortRatio sorts the tokens of each string and returns the
// normalized edit-distance similarity of the sorted forms. Word order
// differences therefore do not count against the score.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(words)

	return strings.Join(words, " ")
}

// ratio is 1 - distance/maxLen, the usual normalized Levenshtein similarity.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}

	if a == b {
		return 1
	}

	ra := []rune(a)
	rb := []rune(b)

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}

	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance with a single-row DP table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}

	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i

		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}

		prev = curr
	}

	return prev[len(b)]
}
