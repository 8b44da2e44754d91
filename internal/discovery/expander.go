// Package discovery holds the AI collaborators that feed the discovery
// session: topic expansion, relationship analysis, gap analysis, and scope
// inference. Each issues synchronous reasoning calls and parses responses
// leniently; missing or malformed fields are defaulted, never fatal.
package discovery

import (
	"context"
	"log/slog"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/profile"
	"github.com/wikiplan/wikiplan/internal/scoring"
	"github.com/wikiplan/wikiplan/internal/search"
	"github.com/wikiplan/wikiplan/internal/suggest"
	"github.com/wikiplan/wikiplan/internal/types"
)

// TopicExpander generates topic suggestions from a domain or a seed topic,
// optionally grounding each suggestion against the knowledge base.
type TopicExpander struct {
	gen       ai.Generator
	validator search.Validator
}

// NewTopicExpander creates an expander. validator may be nil, in which case
// suggestions are returned unvalidated (sentinel confidence).
func NewTopicExpander(gen ai.Generator, validator search.Validator) *TopicExpander {
	return &TopicExpander{gen: gen, validator: validator}
}

// topicSuggestionWire is the JSON shape the model is asked to emit.
type topicSuggestionWire struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	ContentType string  `json:"content_type"`
	Complexity  string  `json:"complexity"`
	Relevance   float64 `json:"relevance"`
	Rationale   string  `json:"rationale"`
}

type suggestionsWire struct {
	Suggestions []topicSuggestionWire `json:"suggestions"`
}

// InitialTopics proposes the foundational topic set for a new domain.
func (e *TopicExpander) InitialTopics(ctx context.Context, domain, description string, scope types.ScopeConfiguration, prof profile.CostProfile) ([]suggest.TopicSuggestion, error) {
	prompt := NewPrompt().
		Domain(domain, description).
		Scope(scope).
		InitialTopicsTask().
		String()

	return e.generateAndValidate(ctx, prompt, "initial topics", prof)
}

// ExpandTopic proposes topics related to one seed, grounded in search
// results when the validator is available.
func (e *TopicExpander) ExpandTopic(ctx context.Context, seedName, domain string, existing map[string]bool, scope types.ScopeConfiguration, prof profile.CostProfile) ([]suggest.TopicSuggestion, error) {
	p := NewPrompt().Domain(domain, "").SeedTopic(seedName)

	grounded := false
	if e.validator != nil {
		results, err := e.validator.Search(ctx, seedName)
		if err != nil {
			slog.Debug("search grounding unavailable for expansion", "seed", seedName, "error", err)
		} else if len(results) > 0 {
			p.SearchContext(results)
			grounded = true
		}
	}

	prompt := p.ExistingTopics(existing).
		Scope(scope).
		ExpansionTask(prof.SuggestionsRange(), grounded).
		String()

	return e.generateAndValidate(ctx, prompt, "topic expansion", prof)
}

func (e *TopicExpander) generateAndValidate(ctx context.Context, prompt, operation string, prof profile.CostProfile) ([]suggest.TopicSuggestion, error) {
	response, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	wire := ai.ParseOrDefault(response, operation, suggestionsWire{})

	suggestions := make([]suggest.TopicSuggestion, 0, len(wire.Suggestions))
	for _, w := range wire.Suggestions {
		s, err := suggest.NewTopicSuggestion(suggest.TopicSuggestion{
			Name:                 w.Name,
			Description:          w.Description,
			Category:             w.Category,
			SuggestedContentType: types.ParseContentType(w.ContentType),
			SuggestedComplexity:  capComplexity(types.ParseComplexity(w.Complexity), prof.MaxComplexity),
			RelevanceScore:       w.Relevance,
			Rationale:            w.Rationale,
			SourceContext:        operation,
			SearchConfidence:     scoring.NotValidated,
		})
		if err != nil {
			// Nameless entries are model noise; drop them.
			continue
		}
		if prof.WordCountMultiplier > 0 {
			s.SuggestedWordCount = int(float64(s.SuggestedWordCount) * prof.WordCountMultiplier)
		}

		if e.validator != nil {
			confidence, verr := e.validator.ValidateTopic(ctx, s.Name)
			if verr != nil {
				slog.Debug("topic validation failed, leaving unvalidated", "topic", s.Name, "error", verr)
			} else {
				s = s.WithSearchConfidence(confidence)
			}
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, nil
}

func capComplexity(c, max types.ComplexityLevel) types.ComplexityLevel {
	if max.IsValid() && c.Rank() > max.Rank() {
		return max
	}
	return c
}
