package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	p, err := ByName("MINIMAL")
	require.NoError(t, err)
	assert.Equal(t, "minimal", p.Name)

	p, err = ByName("")
	require.NoError(t, err)
	assert.Equal(t, "balanced", p.Name)

	_, err = ByName("extravagant")
	assert.Error(t, err)
}

func TestCriteriaFor_Presets(t *testing.T) {
	minimal := CriteriaFor(Minimal)
	assert.Equal(t, 3, minimal.MinTopics)
	assert.Equal(t, 15, minimal.MaxTopics)
	assert.Equal(t, 1, minimal.MaxExpansionRounds)

	comprehensive := CriteriaFor(Comprehensive)
	assert.Equal(t, 20, comprehensive.MinTopics)
	assert.Equal(t, 150, comprehensive.MaxTopics)
	assert.Equal(t, 5, comprehensive.MaxExpansionRounds)

	balanced := CriteriaFor(Balanced)
	assert.Equal(t, 8, balanced.MinTopics)
	assert.Equal(t, 40, balanced.MaxTopics)
	assert.Equal(t, 3, balanced.MaxExpansionRounds)
}

func TestNewStoppingCriteria_Clamping(t *testing.T) {
	c := NewStoppingCriteria(0, 0, 0, 0, -1, false)
	assert.Equal(t, 3, c.MinTopics)
	assert.Equal(t, 15, c.MaxTopics) // min * 5
	assert.Equal(t, 3, c.MaxExpansionRounds)
	assert.Equal(t, 3, c.MaxConsecutiveLowQualityRounds)
	assert.Equal(t, 0.5, c.ConvergenceThreshold)
}

func TestNewStoppingCriteria_MaxBelowMin(t *testing.T) {
	c := NewStoppingCriteria(10, 5, 3, 3, 0.5, false)
	assert.Equal(t, 10, c.MinTopics)
	assert.Equal(t, 50, c.MaxTopics)
}

func TestHasConverged(t *testing.T) {
	c := NewStoppingCriteria(3, 15, 3, 3, 0.5, false)

	// An empty round is vacuously converged: no more work.
	assert.True(t, c.HasConverged(0, 0))

	// A perfect round never converges for any threshold below 1.
	assert.False(t, c.HasConverged(5, 5))

	assert.True(t, c.HasConverged(1, 5))  // 0.2 < 0.5
	assert.False(t, c.HasConverged(3, 5)) // 0.6 >= 0.5
}

func TestStoppingRules(t *testing.T) {
	c := NewStoppingCriteria(3, 15, 3, 2, 0.5, false)

	assert.False(t, c.ShouldStopByCount(14))
	assert.True(t, c.ShouldStopByCount(15))

	assert.False(t, c.HasMinimumTopics(2))
	assert.True(t, c.HasMinimumTopics(3))

	assert.False(t, c.ShouldStopByRounds(2))
	assert.True(t, c.ShouldStopByRounds(3))

	assert.False(t, c.ShouldStopByLowQuality(1))
	assert.True(t, c.ShouldStopByLowQuality(2))
}

func TestSuggestionsRange(t *testing.T) {
	assert.Equal(t, "3-5", Balanced.SuggestionsRange())
	assert.Equal(t, "1-3", Minimal.SuggestionsRange())
}
