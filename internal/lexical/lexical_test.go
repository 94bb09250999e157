package lexical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quinworks/pricematch/internal/lexical"
)

func TestTokenJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "Identical", a: "provide brick", b: "provide brick", want: 1},
		{name: "OrderInsensitive", a: "brick provide", b: "provide brick", want: 1},
		{name: "PartialOverlap", a: "a b c", b: "b c d", want: 0.5},
		{name: "Disjoint", a: "brick mortar", b: "steel beam", want: 0},
		{name: "PunctuationIgnored", a: "brick, mortar!", b: "brick mortar", want: 1},
		{name: "CaseInsensitive", a: "Brick Mortar", b: "brick mortar", want: 1},
		{name: "OneEmpty", a: "", b: "brick", want: 0},
		{name: "BothEmpty", a: "", b: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lexical.TokenJaccard(tt.a, tt.b), 1e-12)
		})
	}
}

func TestTokenSortRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "Identical", a: "excavate foundation", b: "excavate foundation", want: 1},
		{name: "WordOrderIgnored", a: "foundation excavate", b: "excavate foundation", want: 1},
		{name: "TrailingToken", a: "excavate foundation", b: "excavate foundation trench", want: 19.0 / 26.0},
		{name: "Disjoint", a: "abc", b: "xyz", want: 0},
		{name: "BothEmpty", a: "", b: "", want: 0},
		{name: "OneEmpty", a: "", b: "abc", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, lexical.TokenSortRatio(tt.a, tt.b), 1e-12)
		})
	}
}
