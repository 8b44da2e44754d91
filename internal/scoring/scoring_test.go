package scoring

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQualityScore_Validated(t *testing.T) {
	// relevance 0.9, search confidence 0.9 -> 0.9*0.6 + 0.9*0.4 = 0.9
	got := QualityScore(0.9, 0.9)
	if !almostEqual(got, 0.9) {
		t.Errorf("expected 0.9, got %v", got)
	}
}

func TestQualityScore_Unvalidated(t *testing.T) {
	// relevance 0.5, sentinel confidence -> 0.5*0.7 = 0.35
	got := QualityScore(0.5, NotValidated)
	if !almostEqual(got, 0.35) {
		t.Errorf("expected 0.35, got %v", got)
	}
}

func TestQualityScore_StaysInRange(t *testing.T) {
	for _, relevance := range []float64{0, 0.25, 0.5, 0.75, 1} {
		for _, confidence := range []float64{NotValidated, 0, 0.3, 0.7, 1} {
			score := QualityScore(relevance, confidence)
			if score < 0 || score > 1 {
				t.Errorf("QualityScore(%v, %v) = %v, out of [0,1]", relevance, confidence, score)
			}
		}
	}
}

func TestQualityScore_ValidationChangesWeighting(t *testing.T) {
	validated := QualityScore(0.8, 0.9)
	unvalidated := QualityScore(0.8, NotValidated)
	if validated <= unvalidated {
		t.Errorf("strong validation should raise the score: validated=%v unvalidated=%v", validated, unvalidated)
	}
}
