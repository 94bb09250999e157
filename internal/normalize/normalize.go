// Package normalize canonicalizes raw line-item descriptions so that
// semantically equivalent construction-trade phrasings compare equal.
package normalize

import (
	"regexp"
	"strings"
)

// Profile selects how aggressive the pipeline is.
type Profile string

const (
	// ProfileFull strips dimensions and free-standing numbers in addition
	// to the base pipeline. This is the default for matching.
	ProfileFull Profile = "full"
	// ProfileLight keeps numeric tokens. Some deployments match on
	// dimension-bearing descriptions where the numbers carry signal.
	ProfileLight Profile = "light"
)

var (
	nonAlnumRe     = regexp.MustCompile(`[^a-z0-9\s]`)
	numericUnitRe  = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:mm|cm|m|inch|in|ft)\b`)
	numberRe       = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	unitTokenRe    = regexp.MustCompile(`\s+(?:mm|cm|m|inch|in|ft)\b`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	suffixPriority = []string{"ings", "ing", "ed", "es", "s"}
)

// unit and abbreviation folds applied before punctuation stripping, so
// that "r.c.c." survives as "rcc" rather than dissolving into letters.
var abbreviationFolds = [...][2]string{
	{"mm.", "mm"},
	{"cm.", "cm"},
	{"r.c.c.", "rcc"},
	{"reinforced cement concrete", "rcc"},
}

// Normalizer applies the canonical normalization pipeline. The step order
// is fixed; reordering changes results.
type Normalizer struct {
	profile  Profile
	synonyms map[string]string
}

// New returns a Normalizer for the given profile using the built-in
// construction-trade synonym map.
func New(profile Profile) *Normalizer {
	return &Normalizer{profile: profile, synonyms: synonymMap}
}

// NewWithSynonyms returns a Normalizer with a caller-supplied synonym map.
// A nil map disables synonym folding.
func NewWithSynonyms(profile Profile, synonyms map[string]string) *Normalizer {
	return &Normalizer{profile: profile, synonyms: synonyms}
}

// Normalize canonicalizes a raw description. It is pure and total: any
// input yields a (possibly empty) string, never an error.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = whitespaceRe.ReplaceAllString(s, " ")

	for _, fold := range abbreviationFolds {
		s = strings.ReplaceAll(s, fold[0], fold[1])
	}

	s = nonAlnumRe.ReplaceAllString(s, " ")

	// Dimensions are noise for matching: drop numeric-unit pairs first
	// ("150mm", "2.5 m"), then free-standing numbers, then stranded units.
	if n.profile == ProfileFull {
		s = numericUnitRe.ReplaceAllString(s, " ")
		s = numberRe.ReplaceAllString(s, " ")
		s = unitTokenRe.ReplaceAllString(s, " ")
	}

	words := strings.Fields(s)
	out := words[:0]

	for _, w := range words {
		if mapped, ok := n.synonyms[w]; ok {
			w = mapped
		}

		w = stripSuffix(w)

		if _, stop := stopWords[w]; stop {
			continue
		}

		if w != "" {
			out = append(out, w)
		}
	}

	return strings.Join(out, " ")
}

// stripSuffix folds simple morphological variants. Only words longer than
// 3 runes are touched; the first matching suffix wins.
func stripSuffix(w string) string {
	if len(w) <= 3 {
		return w
	}

	for _, suffix := range suffixPriority {
		if strings.HasSuffix(w, suffix) {
			return w[:len(w)-len(suffix)]
		}
	}

	return w
}

// Tokens returns the whitespace-separated tokens of a normalized string.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
