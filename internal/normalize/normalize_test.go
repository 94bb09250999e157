package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quinworks/pricematch/internal/normalize"
)

func TestNormalizer_Normalize(t *testing.T) {
	type testCase struct {
		name    string
		profile normalize.Profile
		raw     string
		want    string
	}

	tests := []testCase{
		{
			name:    "EmptyInput",
			profile: normalize.ProfileFull,
			raw:     "",
			want:    "",
		},
		{
			name:    "WhitespaceOnly",
			profile: normalize.ProfileFull,
			raw:     "   \t  ",
			want:    "",
		},
		{
			name:    "LowercaseAndCollapse",
			profile: normalize.ProfileFull,
			raw:     "Brickwork   In  Cement Mortar",
			want:    "brick concrete mortar",
		},
		{
			name:    "AbbreviationFold",
			profile: normalize.ProfileFull,
			raw:     "R.C.C. column 300mm.",
			want:    "rcc column",
		},
		{
			name:    "ReinforcedCementConcreteFold",
			profile: normalize.ProfileLight,
			raw:     "reinforced cement concrete slab",
			want:    "rcc slab",
		},
		{
			name:    "NumericUnitPairsDropped",
			profile: normalize.ProfileFull,
			raw:     "supply and lay rcc footing 150mm",
			want:    "provide lay rcc foundation",
		},
		{
			name:    "SeparatedNumericUnitPairDropped",
			profile: normalize.ProfileFull,
			raw:     "excavate trench 2.5 m deep",
			want:    "excavate trench deep",
		},
		{
			name:    "LightProfileKeepsNumbers",
			profile: normalize.ProfileLight,
			raw:     "footing 150",
			want:    "foundation 150",
		},
		{
			name:    "SynonymThenSuffix",
			profile: normalize.ProfileFull,
			raw:     "digging for footings",
			want:    "excavate foundation",
		},
		{
			name:    "SuffixPriorityIngsBeforeS",
			profile: normalize.ProfileFull,
			raw:     "copings renderings",
			want:    "cop render",
		},
		{
			name:    "ShortWordsUntouched",
			profile: normalize.ProfileFull,
			raw:     "gas pit mes",
			want:    "gas pit mes",
		},
		{
			name:    "StopWordsRemoved",
			profile: normalize.ProfileFull,
			raw:     "supply of bricks to the site",
			want:    "provide brick site",
		},
		{
			name:    "PunctuationStripped",
			profile: normalize.ProfileFull,
			raw:     "plaster (internal) - two coats!",
			want:    "plaster internal two coat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := normalize.New(tt.profile)
			assert.Equal(t, tt.want, n.Normalize(tt.raw))
		})
	}
}

func TestNormalizer_Idempotent(t *testing.T) {
	inputs := []string{
		"Supply and lay R.C.C. footing 150mm",
		"Brickwork in cement mortar 1:4",
		"Excavation for foundation trench 2.5 m deep",
		"Demolition of existing structures",
		"Providing and installing door frames",
		"",
	}

	n := normalize.New(normalize.ProfileFull)

	for _, raw := range inputs {
		once := n.Normalize(raw)
		assert.Equal(t, once, n.Normalize(once), "input %q", raw)
	}
}

func TestNormalizer_CustomSynonyms(t *testing.T) {
	n := normalize.NewWithSynonyms(normalize.ProfileFull, map[string]string{
		"tarmac": "asphalt",
	})

	assert.Equal(t, "asphalt driveway", n.Normalize("tarmac driveway"))
	// Built-in synonyms are not active on a custom map.
	assert.Equal(t, "dig trench", n.Normalize("dig trench"))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"provide", "brick"}, normalize.Tokens("provide brick"))
	assert.Empty(t, normalize.Tokens(""))
}
