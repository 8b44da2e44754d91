// Package profile defines cost profiles, the named presets for how much
// expansion a discovery run performs, and the stopping criteria derived
// from them.
package profile

import (
	"fmt"
	"strings"

	"github.com/wikiplan/wikiplan/internal/scoring"
	"github.com/wikiplan/wikiplan/internal/types"
)

// CostProfile bundles the knobs that bound how much work (and spend) a
// discovery run is allowed: rounds, fan-out per round, and analysis depth.
type CostProfile struct {
	Name                string
	MaxExpansionRounds  int
	TopicsPerRound      int
	SuggestionsPerTopic int
	MaxComplexity       types.ComplexityLevel
	WordCountMultiplier float64
	SkipGapAnalysis     bool
	RelationshipDepth   int
	AcceptThreshold     float64
}

// Built-in presets. Custom profiles can be constructed directly; the
// stopping criteria constructor clamps whatever it is given.
var (
	Minimal = CostProfile{
		Name:                "minimal",
		MaxExpansionRounds:  1,
		TopicsPerRound:      2,
		SuggestionsPerTopic: 3,
		MaxComplexity:       types.ComplexityIntermediate,
		WordCountMultiplier: 0.75,
		SkipGapAnalysis:     true,
		RelationshipDepth:   1,
		AcceptThreshold:     0.8,
	}

	Balanced = CostProfile{
		Name:                "balanced",
		MaxExpansionRounds:  3,
		TopicsPerRound:      4,
		SuggestionsPerTopic: 5,
		MaxComplexity:       types.ComplexityAdvanced,
		WordCountMultiplier: 1.0,
		SkipGapAnalysis:     false,
		RelationshipDepth:   2,
		AcceptThreshold:     scoring.DefaultAcceptThreshold,
	}

	Comprehensive = CostProfile{
		Name:                "comprehensive",
		MaxExpansionRounds:  5,
		TopicsPerRound:      8,
		SuggestionsPerTopic: 7,
		MaxComplexity:       types.ComplexityAdvanced,
		WordCountMultiplier: 1.25,
		SkipGapAnalysis:     false,
		RelationshipDepth:   3,
		AcceptThreshold:     0.7,
	}
)

// ByName resolves a built-in profile by name (case-insensitive).
func ByName(name string) (CostProfile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "balanced":
		return Balanced, nil
	case "minimal":
		return Minimal, nil
	case "comprehensive":
		return Comprehensive, nil
	default:
		return CostProfile{}, fmt.Errorf("unknown cost profile %q (want minimal, balanced, or comprehensive)", name)
	}
}

// SuggestionsRange is the "3-5" style range requested from the AI per topic.
func (p CostProfile) SuggestionsRange() string {
	lo := p.SuggestionsPerTopic - 2
	if lo < 1 {
		lo = 1
	}
	return fmt.Sprintf("%d-%d", lo, p.SuggestionsPerTopic)
}

// StoppingCriteria bounds iterative expansion and detects convergence so a
// run cannot consume unbounded API budget.
type StoppingCriteria struct {
	MinTopics                      int
	MaxTopics                      int
	MaxExpansionRounds             int
	MaxConsecutiveLowQualityRounds int
	ConvergenceThreshold           float64
	RequireGapSatisfaction         bool
}

// NewStoppingCriteria validates and clamps out-of-range values to sane
// defaults. Clamping, not rejection: callers hand us knobs from config files
// and flags, and a bad knob should not kill the run.
func NewStoppingCriteria(minTopics, maxTopics, maxRounds, maxLowQualityRounds int, convergenceThreshold float64, requireGapSatisfaction bool) StoppingCriteria {
	if minTopics < 1 {
		minTopics = 3
	}
	if maxTopics < minTopics {
		maxTopics = minTopics * 5
	}
	if maxRounds < 1 {
		maxRounds = 3
	}
	if maxLowQualityRounds < 1 {
		maxLowQualityRounds = 3
	}
	if convergenceThreshold <= 0 || convergenceThreshold > 1 {
		convergenceThreshold = 0.5
	}
	return StoppingCriteria{
		MinTopics:                      minTopics,
		MaxTopics:                      maxTopics,
		MaxExpansionRounds:             maxRounds,
		MaxConsecutiveLowQualityRounds: maxLowQualityRounds,
		ConvergenceThreshold:           convergenceThreshold,
		RequireGapSatisfaction:         requireGapSatisfaction,
	}
}

// CriteriaFor derives stopping criteria from a cost profile.
func CriteriaFor(p CostProfile) StoppingCriteria {
	switch strings.ToLower(p.Name) {
	case "minimal":
		return NewStoppingCriteria(3, 15, 1, 2, 0.6, false)
	case "comprehensive":
		return NewStoppingCriteria(20, 150, 5, 3, 0.4, true)
	default:
		return NewStoppingCriteria(8, 40, 3, 3, 0.5, true)
	}
}

// ShouldStopByCount reports whether the topic count has hit the ceiling.
func (c StoppingCriteria) ShouldStopByCount(topicCount int) bool {
	return topicCount >= c.MaxTopics
}

// HasMinimumTopics reports whether enough topics exist to consider any
// convergence-based early stop.
func (c StoppingCriteria) HasMinimumTopics(topicCount int) bool {
	return topicCount >= c.MinTopics
}

// HasConverged reports whether a round's high-quality ratio fell below the
// convergence threshold. An empty round counts as converged: no more work.
func (c StoppingCriteria) HasConverged(highQualityCount, totalCount int) bool {
	if totalCount == 0 {
		return true
	}
	ratio := float64(highQualityCount) / float64(totalCount)
	return ratio < c.ConvergenceThreshold
}

// ShouldStopByLowQuality reports whether too many consecutive rounds were
// low quality.
func (c StoppingCriteria) ShouldStopByLowQuality(consecutiveRounds int) bool {
	return consecutiveRounds >= c.MaxConsecutiveLowQualityRounds
}

// ShouldStopByRounds reports whether the round limit has been reached.
func (c StoppingCriteria) ShouldStopByRounds(round int) bool {
	return round >= c.MaxExpansionRounds
}

// Description is a human-readable summary of the stopping behavior.
func (c StoppingCriteria) Description() string {
	return fmt.Sprintf("Stop when: %d-%d topics, max %d rounds, convergence < %.0f%%",
		c.MinTopics, c.MaxTopics, c.MaxExpansionRounds, c.ConvergenceThreshold*100)
}
