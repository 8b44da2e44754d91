package discovery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wikiplan/wikiplan/internal/search"
	"github.com/wikiplan/wikiplan/internal/types"
)

// PromptBuilder assembles expansion prompts from composable sections,
// keeping the section wording in one place across the different prompt
// shapes (initial, standard, search-grounded).
type PromptBuilder struct {
	b strings.Builder
}

// NewPrompt creates an empty builder.
func NewPrompt() *PromptBuilder {
	return &PromptBuilder{}
}

// Domain adds the domain section with an optional description.
func (p *PromptBuilder) Domain(name, description string) *PromptBuilder {
	p.b.WriteString("## Domain\n")
	p.b.WriteString("Name: " + name + "\n")
	if strings.TrimSpace(description) != "" {
		p.b.WriteString("Description: " + description + "\n")
	}
	p.b.WriteString("\n")
	return p
}

// SeedTopic adds the topic being expanded.
func (p *PromptBuilder) SeedTopic(name string) *PromptBuilder {
	p.b.WriteString("## Seed Topic to Expand\n")
	p.b.WriteString("Topic: " + name + "\n")
	return p
}

// SearchContext grounds the prompt in knowledge-base results.
func (p *PromptBuilder) SearchContext(results []search.Result) *PromptBuilder {
	if len(results) == 0 {
		return p
	}
	if results[0].Snippet != "" {
		p.b.WriteString("Summary from search: " + results[0].Snippet + "\n")
	}
	titles := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.Title)
	}
	if len(titles) > 15 {
		titles = titles[:15]
	}
	p.b.WriteString("Related topics from search: " + strings.Join(titles, ", ") + "\n\n")
	return p
}

// ExistingTopics lists already-known topics so the model avoids duplicates.
func (p *PromptBuilder) ExistingTopics(names map[string]bool) *PromptBuilder {
	if len(names) == 0 {
		return p
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	p.b.WriteString("## Existing Topics (do not suggest duplicates)\n")
	p.b.WriteString(strings.Join(sorted, ", "))
	p.b.WriteString("\n\n")
	return p
}

// Scope adds the scope boundary section.
func (p *PromptBuilder) Scope(scope types.ScopeConfiguration) *PromptBuilder {
	rendered := scope.PromptFormat()
	if rendered == "" {
		return p
	}
	p.b.WriteString("## Scope\n")
	p.b.WriteString(rendered)
	p.b.WriteString("\n")
	return p
}

const suggestionJSONFormat = `Respond with JSON in this format:
` + "```json" + `
{
  "suggestions": [
    {
      "name": "Topic Name",
      "description": "Brief description of what this topic covers",
      "category": "prerequisite|component|related|application|advanced",
      "content_type": "concept|tutorial|reference|how_to|comparison|troubleshooting",
      "complexity": "beginner|intermediate|advanced",
      "relevance": 0.85,
      "rationale": "Why this topic is important for the wiki"
    }
  ]
}
` + "```" + `
`

// ExpansionTask adds the task section for seed expansion. grounded controls
// whether the model is told to prefer search-confirmed topics.
func (p *PromptBuilder) ExpansionTask(suggestionsRange string, grounded bool) *PromptBuilder {
	p.b.WriteString("## Task\n")
	fmt.Fprintf(&p.b, "Analyze the seed topic and suggest %s related topics that would help create a comprehensive wiki.\n", suggestionsRange)
	p.b.WriteString("Focus on topics that directly support understanding or applying the seed topic.\n\n")
	if grounded {
		p.b.WriteString("IMPORTANT: Prefer suggesting topics that appear in the \"Related topics from search\" list or are\nclosely related to them. This keeps suggestions grounded in real knowledge.\n\n")
	}
	p.b.WriteString(suggestionJSONFormat)
	return p
}

// InitialTopicsTask adds the task section for first-round domain analysis.
func (p *PromptBuilder) InitialTopicsTask() *PromptBuilder {
	p.b.WriteString("## Task\n")
	p.b.WriteString(`Analyze this domain and suggest 10-15 foundational topics that would form the core of a comprehensive wiki.
Include a mix of:
- Core concepts that define the domain
- Practical tutorials for hands-on learning
- Reference material for ongoing use
- Comparisons with alternatives where relevant

`)
	p.b.WriteString(suggestionJSONFormat)
	return p
}

// String builds the final prompt.
func (p *PromptBuilder) String() string {
	return p.b.String()
}
