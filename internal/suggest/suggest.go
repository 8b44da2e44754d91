// Package suggest defines the candidate model: topic and relationship
// proposals produced by AI collaborators before any curation decision. Both
// types are immutable: operations that change a score return a new value
// with the same identity fields.
package suggest

import (
	"fmt"
	"strings"

	"github.com/wikiplan/wikiplan/internal/scoring"
	"github.com/wikiplan/wikiplan/internal/types"
)

// TopicSuggestion is a proposed topic with the AI's analysis attached.
type TopicSuggestion struct {
	Name                 string
	Description          string
	Category             string
	SuggestedContentType types.ContentType
	SuggestedComplexity  types.ComplexityLevel
	SuggestedWordCount   int
	RelevanceScore       float64
	Rationale            string
	SourceContext        string
	SearchConfidence     float64
}

// NewTopicSuggestion constructs a suggestion, normalizing missing or
// out-of-range fields to defaults instead of rejecting them. Only a blank
// name is a caller error.
func NewTopicSuggestion(s TopicSuggestion) (TopicSuggestion, error) {
	if strings.TrimSpace(s.Name) == "" {
		return TopicSuggestion{}, fmt.Errorf("suggestion name is required")
	}
	if !s.SuggestedContentType.IsValid() {
		s.SuggestedContentType = types.ContentConcept
	}
	if !s.SuggestedComplexity.IsValid() {
		s.SuggestedComplexity = types.ComplexityIntermediate
	}
	if s.SuggestedWordCount <= 0 {
		s.SuggestedWordCount = s.SuggestedComplexity.MinWords()
	}
	if s.RelevanceScore < 0 || s.RelevanceScore > 1 {
		s.RelevanceScore = scoring.DefaultConfidence
	}
	if s.SearchConfidence < 0 || s.SearchConfidence > 1 {
		s.SearchConfidence = scoring.NotValidated
	}
	return s, nil
}

// Simple creates a minimal suggestion with defaults for everything beyond
// name and description.
func Simple(name, description string) TopicSuggestion {
	s, _ := NewTopicSuggestion(TopicSuggestion{
		Name:             name,
		Description:      description,
		SearchConfidence: scoring.NotValidated,
	})
	return s
}

// WithSearchConfidence returns a copy of the suggestion carrying the given
// search confidence.
func (s TopicSuggestion) WithSearchConfidence(confidence float64) TopicSuggestion {
	s.SearchConfidence = confidence
	return s
}

// HasSearchConfidence reports whether the suggestion was validated against a
// knowledge base (confidence is not the sentinel).
func (s TopicSuggestion) HasSearchConfidence() bool {
	return s.SearchConfidence >= 0
}

// QualityScore is the combined quality score for autonomous curation.
func (s TopicSuggestion) QualityScore() float64 {
	return scoring.QualityScore(s.RelevanceScore, s.SearchConfidence)
}

// MeetsAutonomousThreshold reports whether the suggestion can be accepted
// without AI reasoning. Monotonic in threshold: raising it can only move a
// suggestion from accepted to not-accepted.
func (s TopicSuggestion) MeetsAutonomousThreshold(threshold float64) bool {
	return s.QualityScore() >= threshold && s.SearchConfidence >= scoring.AcceptSearchThreshold
}

// IsAutoRejectCandidate reports whether the suggestion is clearly low
// quality or likely fabricated.
func (s TopicSuggestion) IsAutoRejectCandidate() bool {
	return s.QualityScore() < scoring.AutoRejectScoreThreshold ||
		(s.HasSearchConfidence() && s.SearchConfidence < scoring.AutoRejectSearchThreshold)
}

// ToTopic materializes the suggestion as a topic in the given status.
func (s TopicSuggestion) ToTopic(status types.TopicStatus) (*types.Topic, error) {
	t, err := types.NewTopic(s.Name, s.Description)
	if err != nil {
		return nil, err
	}
	t.Status = status
	t.ContentType = s.SuggestedContentType
	t.Complexity = s.SuggestedComplexity
	t.EstimatedWordCount = s.SuggestedWordCount
	t.Category = s.Category
	if s.Rationale != "" {
		t.AddedReason = s.Rationale
	}
	return t, nil
}

// Summary is a one-line display form.
func (s TopicSuggestion) Summary() string {
	return fmt.Sprintf("%s (%s, %s, ~%d words)",
		s.Name, s.SuggestedContentType, s.SuggestedComplexity, s.SuggestedWordCount)
}

// ConfidenceIndicator is a short label for the search confidence band.
func (s TopicSuggestion) ConfidenceIndicator() string {
	switch {
	case s.SearchConfidence < 0:
		return "not validated"
	case s.SearchConfidence >= scoring.HighConfidenceThreshold:
		return "high confidence"
	case s.SearchConfidence >= scoring.MediumConfidenceThreshold:
		return "medium confidence"
	case s.SearchConfidence >= scoring.LowConfidenceThreshold:
		return "low confidence"
	default:
		return "not found in search"
	}
}

// RelationshipSuggestion is a proposed typed edge between two topic names.
type RelationshipSuggestion struct {
	SourceName string
	TargetName string
	Type       types.RelationshipType
	Confidence float64
	Rationale  string
}

// NewRelationshipSuggestion constructs a relationship suggestion. A
// self-referential pair is a caller error; an out-of-range confidence is
// normalized to the default.
func NewRelationshipSuggestion(source, target string, relType types.RelationshipType, confidence float64, rationale string) (RelationshipSuggestion, error) {
	if strings.TrimSpace(source) == "" || strings.TrimSpace(target) == "" {
		return RelationshipSuggestion{}, fmt.Errorf("relationship endpoints are required")
	}
	if strings.EqualFold(strings.TrimSpace(source), strings.TrimSpace(target)) {
		return RelationshipSuggestion{}, fmt.Errorf("relationship cannot be self-referential: %s", source)
	}
	if !relType.IsValid() {
		relType = types.RelRelatedTo
	}
	if confidence < 0 || confidence > 1 {
		confidence = scoring.DefaultConfidence
	}
	return RelationshipSuggestion{
		SourceName: source,
		TargetName: target,
		Type:       relType,
		Confidence: confidence,
		Rationale:  rationale,
	}, nil
}

// IsHighConfidence reports whether the edge can be confirmed without review.
func (r RelationshipSuggestion) IsHighConfidence() bool {
	return r.Confidence >= scoring.HighConfidenceThreshold
}

// ImpliesOrdering reports whether the suggested type constrains generation
// order.
func (r RelationshipSuggestion) ImpliesOrdering() bool {
	return r.Type.ImpliesOrdering()
}

// Describe is a human-readable single-line form.
func (r RelationshipSuggestion) Describe() string {
	return fmt.Sprintf("%q %s %q", r.SourceName, strings.ReplaceAll(string(r.Type), "_", " "), r.TargetName)
}
