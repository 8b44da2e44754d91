package curation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/scoring"
	"github.com/wikiplan/wikiplan/internal/suggest"
)

// deferUnavailable is the fallback when the AI cannot be reached or its
// answer cannot be parsed. Deferring keeps the item in the backlog for
// human review instead of dropping it.
var deferUnavailable = Decision{
	Action:     ActionDefer,
	Reasoning:  "reasoning unavailable",
	Confidence: 0,
}

// Curator makes topic decisions: deterministic rules first, AI reasoning
// for the remainder.
type Curator struct {
	gen       ai.Generator
	threshold float64
}

// NewCurator creates a curator. An out-of-range threshold is clamped to
// the default rather than rejected.
func NewCurator(gen ai.Generator, threshold float64) *Curator {
	if threshold <= 0 || threshold > 1 {
		threshold = scoring.DefaultAcceptThreshold
	}
	return &Curator{gen: gen, threshold: threshold}
}

// Threshold returns the autonomous accept threshold in effect.
func (c *Curator) Threshold() float64 { return c.threshold }

// DecideTopic curates a single suggestion.
func (c *Curator) DecideTopic(ctx context.Context, s suggest.TopicSuggestion, sctx Context) Decision {
	if d, matched := RuleDecision(s, sctx, c.threshold); matched {
		return d
	}
	decisions := c.askAI(ctx, []suggest.TopicSuggestion{s}, sctx)
	return decisions[0]
}

// DecideTopics curates a batch. Deterministic rules run locally on every
// item; only the remainder goes to the AI in one request, and its answers
// are spliced back into the original order. A short AI response pads the
// tail with deferrals.
func (c *Curator) DecideTopics(ctx context.Context, batch []suggest.TopicSuggestion, sctx Context) []Decision {
	decisions := make([]Decision, len(batch))
	var pending []suggest.TopicSuggestion
	var pendingIdx []int
	for i, s := range batch {
		if d, matched := RuleDecision(s, sctx, c.threshold); matched {
			decisions[i] = d
			continue
		}
		pending = append(pending, s)
		pendingIdx = append(pendingIdx, i)
	}
	if len(pending) == 0 {
		return decisions
	}
	aiDecisions := c.askAI(ctx, pending, sctx)
	for j, i := range pendingIdx {
		decisions[i] = aiDecisions[j]
	}
	return decisions
}

type decisionWire struct {
	Name       string  `json:"name"`
	Action     string  `json:"action"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

// askAI sends the ambiguous suggestions to the AI and returns one decision
// per input, in input order. Any failure yields deferrals.
func (c *Curator) askAI(ctx context.Context, batch []suggest.TopicSuggestion, sctx Context) []Decision {
	decisions := make([]Decision, len(batch))
	for i := range decisions {
		decisions[i] = deferUnavailable
	}
	if c.gen == nil {
		return decisions
	}

	response, err := c.gen.Generate(ctx, c.buildPrompt(batch, sctx))
	if err != nil {
		slog.Warn("curation reasoning call failed, deferring batch", "count", len(batch), "error", err)
		return decisions
	}
	result := ai.Parse[[]decisionWire](response, "curation decisions")
	if !result.Success {
		slog.Warn("curation reasoning response unusable, deferring batch", "count", len(batch), "reason", result.Reason)
		return decisions
	}

	for i, w := range result.Data {
		if i >= len(decisions) {
			break
		}
		action := Action(strings.ToLower(strings.TrimSpace(w.Action)))
		switch action {
		case ActionAccept, ActionReject, ActionDefer:
		default:
			// Anything else from the model is treated as no decision.
			continue
		}
		reasoning := strings.TrimSpace(w.Reasoning)
		if reasoning == "" {
			reasoning = "no reasoning provided"
		}
		confidence := w.Confidence
		if confidence < 0 || confidence > 1 {
			confidence = scoring.DefaultConfidence
		}
		decisions[i] = Decision{Action: action, Reasoning: reasoning, Confidence: confidence}
	}
	// A short AI response leaves the tail deferred.
	for i := len(result.Data); i < len(decisions); i++ {
		decisions[i] = Decision{Action: ActionDefer, Reasoning: "no decision provided"}
	}
	return decisions
}

func (c *Curator) buildPrompt(batch []suggest.TopicSuggestion, sctx Context) string {
	var b strings.Builder
	b.WriteString("You are curating proposed wiki topics. For each candidate, decide accept, reject, or defer.\n\n")
	b.WriteString("## Context\n\n")
	b.WriteString(sctx.PromptFormat())
	fmt.Fprintf(&b, "Remaining capacity: %d topics\n\n", sctx.RemainingCapacity())

	b.WriteString("## Candidates\n\n")
	for i, s := range batch {
		fmt.Fprintf(&b, "%d. **%s** (relevance %.2f, %s)\n   %s\n",
			i+1, s.Name, s.RelevanceScore, s.ConfidenceIndicator(), s.Description)
		if s.Rationale != "" {
			fmt.Fprintf(&b, "   Rationale: %s\n", s.Rationale)
		}
	}

	b.WriteString(`
## Task

Respond with a JSON array, one object per candidate, in the same order:
` + "```json" + `
[
  {"name": "candidate name", "action": "accept|reject|defer", "reasoning": "one sentence", "confidence": 0.0}
]
` + "```" + `

Guidelines:
- accept topics a reader of this domain would expect to find
- reject topics that are off-domain, too broad, or redundant with accepted topics
- defer topics that might be valuable but need human judgment
`)
	return b.String()
}
