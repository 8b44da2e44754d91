package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/suggest"
	"github.com/wikiplan/wikiplan/internal/types"
)

// RelationshipSuggester asks the model which typed edges connect the
// accepted topics.
type RelationshipSuggester struct {
	gen ai.Generator
}

// NewRelationshipSuggester creates a suggester.
func NewRelationshipSuggester(gen ai.Generator) *RelationshipSuggester {
	return &RelationshipSuggester{gen: gen}
}

type relationshipWire struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

type relationshipsWire struct {
	Relationships []relationshipWire `json:"relationships"`
}

// AnalyzeRelationships proposes edges among the given topics. Depth controls
// how exhaustive the model is asked to be (from the cost profile).
func (r *RelationshipSuggester) AnalyzeRelationships(ctx context.Context, topics []types.Topic, depth int) ([]suggest.RelationshipSuggestion, error) {
	if len(topics) < 2 {
		return nil, nil
	}

	prompt := r.buildPrompt(topics, depth)
	response, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	wire := ai.ParseOrDefault(response, "relationship analysis", relationshipsWire{})

	suggestions := make([]suggest.RelationshipSuggestion, 0, len(wire.Relationships))
	for _, w := range wire.Relationships {
		s, err := suggest.NewRelationshipSuggestion(
			w.Source, w.Target, types.ParseRelationshipType(w.Type), w.Confidence, w.Rationale)
		if err != nil {
			// Self-referential or incomplete edges are model noise.
			slog.Debug("dropping malformed relationship suggestion",
				"source", w.Source, "target", w.Target, "error", err)
			continue
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

func (r *RelationshipSuggester) buildPrompt(topics []types.Topic, depth int) string {
	var b strings.Builder
	b.WriteString("## Relationship Analysis\n\n")
	b.WriteString("Identify the relationships between these wiki topics.\n\n")
	b.WriteString("## Topics\n\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	b.WriteString("\n## Task\n\n")

	switch {
	case depth >= 3:
		b.WriteString("Be exhaustive: consider every pair of topics and report every relationship that genuinely holds.\n")
	case depth == 2:
		b.WriteString("Report the structurally important relationships; skip weak or incidental connections.\n")
	default:
		b.WriteString("Report only prerequisite relationships that affect the order articles must be written in.\n")
	}

	b.WriteString(`
Relationship types: prerequisite_of, part_of, related_to, example_of, contrasts_with, implements, supersedes, pairs_with.
"A prerequisite_of B" means A must be understood (and written) before B.

Respond with JSON in this format:
` + "```json" + `
{
  "relationships": [
    {
      "source": "Topic A",
      "target": "Topic B",
      "type": "prerequisite_of",
      "confidence": 0.9,
      "rationale": "Why this relationship holds"
    }
  ]
}
` + "```" + `
`)
	return b.String()
}
