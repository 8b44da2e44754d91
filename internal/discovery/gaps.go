package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/types"
)

// GapSeverity classifies how badly a coverage gap hurts the wiki.
type GapSeverity string

const (
	GapCritical GapSeverity = "critical"
	GapModerate GapSeverity = "moderate"
	GapMinor    GapSeverity = "minor"
)

// IsValid checks if the severity value is valid.
func (s GapSeverity) IsValid() bool {
	switch s {
	case GapCritical, GapModerate, GapMinor:
		return true
	}
	return false
}

// Gap is one coverage deficiency found by comparing the topic set against
// expected domain coverage.
type Gap struct {
	Type               string      `json:"type"`
	Description        string      `json:"description"`
	Severity           GapSeverity `json:"severity"`
	SuggestedTopicName string      `json:"suggested_topic,omitempty"`
}

// GapAnalyzer asks the model where the topic set has holes.
type GapAnalyzer struct {
	gen ai.Generator
}

// NewGapAnalyzer creates an analyzer.
func NewGapAnalyzer(gen ai.Generator) *GapAnalyzer {
	return &GapAnalyzer{gen: gen}
}

type gapWire struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	SuggestedTopic string `json:"suggested_topic"`
}

type gapsWire struct {
	Gaps []gapWire `json:"gaps"`
}

// AnalyzeGaps reports coverage gaps in the accepted topic set. An unusable
// response yields an empty report, not an error: gap analysis is advisory.
func (g *GapAnalyzer) AnalyzeGaps(ctx context.Context, topics []types.Topic, relationships []types.TopicRelationship, scope types.ScopeConfiguration) ([]Gap, error) {
	prompt := g.buildPrompt(topics, relationships, scope)
	response, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	wire := ai.ParseOrDefault(response, "gap analysis", gapsWire{})

	gaps := make([]Gap, 0, len(wire.Gaps))
	for _, w := range wire.Gaps {
		if strings.TrimSpace(w.Description) == "" {
			continue
		}
		severity := GapSeverity(strings.ToLower(strings.TrimSpace(w.Severity)))
		if !severity.IsValid() {
			severity = GapMinor // unknown severity is treated as ignorable
		}
		gapType := strings.TrimSpace(w.Type)
		if gapType == "" {
			gapType = "coverage"
		}
		gaps = append(gaps, Gap{
			Type:               gapType,
			Description:        w.Description,
			Severity:           severity,
			SuggestedTopicName: strings.TrimSpace(w.SuggestedTopic),
		})
	}
	return gaps, nil
}

func (g *GapAnalyzer) buildPrompt(topics []types.Topic, relationships []types.TopicRelationship, scope types.ScopeConfiguration) string {
	var b strings.Builder
	b.WriteString("## Coverage Gap Analysis\n\n")
	b.WriteString("Review this planned wiki topic set and identify coverage gaps.\n\n")

	b.WriteString("## Planned Topics\n\n")
	for _, t := range topics {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
	}
	fmt.Fprintf(&b, "\n%d relationships are already mapped between these topics.\n\n", len(relationships))

	if rendered := scope.PromptFormat(); rendered != "" {
		b.WriteString("## Scope\n")
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	b.WriteString(`## Task

Identify missing coverage. Gap types: missing_prerequisite (a planned topic depends on something not planned),
missing_fundamental (a core domain concept is absent), incomplete_coverage (an area is only partially covered),
missing_practical (no hands-on material for a concept-heavy area).

Severity:
- critical: the wiki is broken without it (e.g. a prerequisite readers must have)
- moderate: coverage is noticeably weaker without it
- minor: nice to have

Respond with JSON in this format:
` + "```json" + `
{
  "gaps": [
    {
      "type": "missing_prerequisite",
      "description": "What is missing and why it matters",
      "severity": "critical",
      "suggested_topic": "Topic Name to fill the gap (or empty)"
    }
  ]
}
` + "```" + `
`)
	return b.String()
}
