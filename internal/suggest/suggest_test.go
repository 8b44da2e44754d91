package suggest

import (
	"testing"

	"github.com/wikiplan/wikiplan/internal/scoring"
	"github.com/wikiplan/wikiplan/internal/types"
)

func TestNewTopicSuggestion_RequiresName(t *testing.T) {
	_, err := NewTopicSuggestion(TopicSuggestion{Name: "  "})
	if err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestNewTopicSuggestion_NormalizesDefaults(t *testing.T) {
	s, err := NewTopicSuggestion(TopicSuggestion{
		Name:             "Goroutines",
		RelevanceScore:   1.5, // out of range
		SearchConfidence: 2.0, // out of range
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.RelevanceScore != scoring.DefaultConfidence {
		t.Errorf("expected default relevance, got %v", s.RelevanceScore)
	}
	if s.SearchConfidence != scoring.NotValidated {
		t.Errorf("expected not-validated sentinel, got %v", s.SearchConfidence)
	}
	if s.SuggestedContentType != types.ContentConcept {
		t.Errorf("expected concept default, got %s", s.SuggestedContentType)
	}
	if s.SuggestedWordCount != types.ComplexityIntermediate.MinWords() {
		t.Errorf("expected word count default, got %d", s.SuggestedWordCount)
	}
}

func TestWithSearchConfidence_ReturnsCopy(t *testing.T) {
	original := Simple("Channels", "concurrency primitive")
	validated := original.WithSearchConfidence(0.9)

	if original.SearchConfidence != scoring.NotValidated {
		t.Errorf("original mutated: %v", original.SearchConfidence)
	}
	if validated.SearchConfidence != 0.9 {
		t.Errorf("copy has wrong confidence: %v", validated.SearchConfidence)
	}
	if validated.Name != original.Name {
		t.Error("identity fields must be preserved")
	}
}

func TestMeetsAutonomousThreshold_Monotonic(t *testing.T) {
	s := Simple("Channels", "").WithSearchConfidence(0.9)
	thresholds := []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0}
	wasAccepted := true
	for _, threshold := range thresholds {
		accepted := s.MeetsAutonomousThreshold(threshold)
		if accepted && !wasAccepted {
			t.Fatalf("acceptance regained at threshold %v", threshold)
		}
		wasAccepted = accepted
	}
}

func TestMeetsAutonomousThreshold_RequiresSearchConfidence(t *testing.T) {
	s, _ := NewTopicSuggestion(TopicSuggestion{
		Name:             "Channels",
		RelevanceScore:   1.0,
		SearchConfidence: 0.1, // below the minimum for autonomous accept
	})
	if s.MeetsAutonomousThreshold(0.1) {
		t.Error("low search confidence must block autonomous acceptance")
	}
}

func TestIsAutoRejectCandidate(t *testing.T) {
	tests := []struct {
		name       string
		relevance  float64
		confidence float64
		want       bool
	}{
		{"low score unvalidated", 0.5, scoring.NotValidated, true}, // 0.35 < 0.4
		{"validated but fabricated", 0.9, 0.1, true},
		{"high quality", 0.9, 0.9, false},
		{"decent unvalidated", 0.8, scoring.NotValidated, false}, // 0.56
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewTopicSuggestion(TopicSuggestion{
				Name:             "X",
				RelevanceScore:   tt.relevance,
				SearchConfidence: tt.confidence,
			})
			if got := s.IsAutoRejectCandidate(); got != tt.want {
				t.Errorf("IsAutoRejectCandidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToTopic(t *testing.T) {
	s, _ := NewTopicSuggestion(TopicSuggestion{
		Name:                "Error Handling",
		Description:         "wrapping and sentinel errors",
		Category:            "fundamentals",
		SuggestedComplexity: types.ComplexityBeginner,
		Rationale:           "core language feature",
	})
	topic, err := s.ToTopic(types.StatusAccepted)
	if err != nil {
		t.Fatal(err)
	}
	if topic.ID != "error-handling" {
		t.Errorf("unexpected id %q", topic.ID)
	}
	if topic.Status != types.StatusAccepted {
		t.Errorf("unexpected status %s", topic.Status)
	}
	if topic.AddedReason != "core language feature" {
		t.Errorf("rationale should become provenance, got %q", topic.AddedReason)
	}
}

func TestNewRelationshipSuggestion_RejectsSelfReference(t *testing.T) {
	_, err := NewRelationshipSuggestion("Maps", "maps", types.RelRelatedTo, 0.9, "")
	if err == nil {
		t.Fatal("expected error for self-referential relationship")
	}
}

func TestNewRelationshipSuggestion_NormalizesConfidence(t *testing.T) {
	r, err := NewRelationshipSuggestion("Slices", "Arrays", "made_up_type", 7.0, "")
	if err != nil {
		t.Fatal(err)
	}
	if r.Type != types.RelRelatedTo {
		t.Errorf("unknown type should default, got %s", r.Type)
	}
	if r.Confidence != scoring.DefaultConfidence {
		t.Errorf("out-of-range confidence should default, got %v", r.Confidence)
	}
}
