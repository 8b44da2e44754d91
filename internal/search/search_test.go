package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchConfidence_Exact(t *testing.T) {
	got := MatchConfidence("Goroutines", []string{"Goroutines"})
	assert.Equal(t, 1.0, got)

	// Case and whitespace do not matter.
	got = MatchConfidence("  error HANDLING ", []string{"Error Handling"})
	assert.Equal(t, 1.0, got)
}

func TestMatchConfidence_Substring(t *testing.T) {
	got := MatchConfidence("Goroutine", []string{"Goroutine scheduling"})
	assert.Equal(t, 0.85, got)
}

func TestMatchConfidence_WordOverlap(t *testing.T) {
	// One of two words overlaps: 0.5 + 0.35*0.5 = 0.675.
	got := MatchConfidence("channel buffering", []string{"buffering strategies"})
	assert.InDelta(t, 0.675, got, 1e-9)
}

func TestMatchConfidence_NoMatch(t *testing.T) {
	assert.Equal(t, 0.0, MatchConfidence("Goroutines", []string{"French cuisine"}))
	assert.Equal(t, 0.0, MatchConfidence("Goroutines", nil))
	assert.Equal(t, 0.0, MatchConfidence("", []string{"anything"}))
}

func TestMatchConfidence_BestOfMany(t *testing.T) {
	got := MatchConfidence("Slices", []string{"French cuisine", "Slices and arrays", "Slices"})
	assert.Equal(t, 1.0, got)
}

func TestMatchConfidence_Bands(t *testing.T) {
	// Every score lands in a documented band.
	cases := []struct {
		name       string
		candidates []string
	}{
		{"Context cancellation", []string{"Context"}},
		{"sync primitives", []string{"synchronization primitive"}},
		{"worker pools", []string{"pool worker"}},
	}
	for _, c := range cases {
		got := MatchConfidence(c.name, c.candidates)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}
