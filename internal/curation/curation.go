// Package curation decides what happens to each suggestion: the cheap
// deterministic rules run first, and only the ambiguous remainder is sent
// to the AI for reasoning. Decisions never fail: an unreachable AI
// produces a deferral, not an error.
package curation

import (
	"fmt"
	"strings"

	"github.com/wikiplan/wikiplan/internal/scoring"
	"github.com/wikiplan/wikiplan/internal/suggest"
)

// Action is the outcome class of a curation decision.
type Action string

const (
	ActionAccept     Action = "accept"
	ActionReject     Action = "reject"
	ActionDefer      Action = "defer"
	ActionModify     Action = "modify"
	ActionConfirm    Action = "confirm"
	ActionTypeChange Action = "type_change"
)

// IsValid checks whether the action is one of the defined variants.
func (a Action) IsValid() bool {
	switch a {
	case ActionAccept, ActionReject, ActionDefer, ActionModify, ActionConfirm, ActionTypeChange:
		return true
	}
	return false
}

// Decision is the result of curating one suggestion.
type Decision struct {
	Action        Action            `json:"action"`
	Reasoning     string            `json:"reasoning"`
	Confidence    float64           `json:"confidence"`
	Modifications map[string]string `json:"modifications,omitempty"`
}

// Context is the snapshot of session state the deterministic rules need.
// It is taken once per round; decisions within a batch all see the same
// snapshot.
type Context struct {
	Domain    string
	Round     int
	MaxTopics int

	acceptedCount int
	processed     map[string]bool
}

// NewContext builds a curation context from the session's accepted count
// and the set of names already processed (accepted, rejected, deferred).
func NewContext(domain string, round, acceptedCount, maxTopics int, processedNames []string) Context {
	processed := make(map[string]bool, len(processedNames))
	for _, name := range processedNames {
		processed[strings.ToLower(strings.TrimSpace(name))] = true
	}
	return Context{
		Domain:        domain,
		Round:         round,
		MaxTopics:     maxTopics,
		acceptedCount: acceptedCount,
		processed:     processed,
	}
}

// IsAlreadyProcessed reports whether the name was accepted, rejected, or
// deferred before this snapshot, case-insensitively.
func (c Context) IsAlreadyProcessed(name string) bool {
	return c.processed[strings.ToLower(strings.TrimSpace(name))]
}

// HasMaximumTopics reports whether accepted capacity is exhausted.
func (c Context) HasMaximumTopics() bool {
	return c.MaxTopics > 0 && c.acceptedCount >= c.MaxTopics
}

// RemainingCapacity returns how many more topics can be accepted.
func (c Context) RemainingCapacity() int {
	if c.MaxTopics <= 0 {
		return 0
	}
	if remaining := c.MaxTopics - c.acceptedCount; remaining > 0 {
		return remaining
	}
	return 0
}

// PromptFormat renders the context for inclusion in an AI prompt.
func (c Context) PromptFormat() string {
	return fmt.Sprintf("Domain: %s\nExpansion round: %d\nAccepted topics so far: %d of %d maximum\n",
		c.Domain, c.Round, c.acceptedCount, c.MaxTopics)
}

// DecideRelationship applies the relationship rules. Relationships default
// toward inclusion: a missed edge is cheaper to fix later than a missing
// structural link.
func DecideRelationship(r suggest.RelationshipSuggestion) Decision {
	switch {
	case r.Confidence >= scoring.HighConfidenceThreshold:
		return Decision{Action: ActionConfirm, Reasoning: "high confidence", Confidence: r.Confidence}
	case r.Confidence < scoring.RelationshipRejectThreshold:
		return Decision{Action: ActionReject, Reasoning: "low confidence", Confidence: r.Confidence}
	default:
		return Decision{Action: ActionConfirm, Reasoning: "medium confidence, borderline", Confidence: r.Confidence}
	}
}

// RuleDecision applies the deterministic topic rules in order. The boolean
// reports whether a rule matched; when false, the suggestion needs AI
// reasoning.
func RuleDecision(s suggest.TopicSuggestion, ctx Context, threshold float64) (Decision, bool) {
	if s.MeetsAutonomousThreshold(threshold) {
		return Decision{
			Action:     ActionAccept,
			Reasoning:  "high confidence",
			Confidence: s.QualityScore(),
		}, true
	}
	if s.IsAutoRejectCandidate() {
		return Decision{
			Action:     ActionReject,
			Reasoning:  "low quality / likely fabricated",
			Confidence: s.QualityScore(),
		}, true
	}
	if ctx.IsAlreadyProcessed(s.Name) {
		return Decision{
			Action:     ActionReject,
			Reasoning:  "duplicate",
			Confidence: 1.0,
		}, true
	}
	if ctx.HasMaximumTopics() {
		return Decision{
			Action:     ActionReject,
			Reasoning:  "capacity reached",
			Confidence: 1.0,
		}, true
	}
	return Decision{}, false
}
