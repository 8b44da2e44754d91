package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/types"
)

// ScopeInferrer determines scope boundaries from the domain name and the
// user's description, so autonomous runs need no scope interview.
type ScopeInferrer struct {
	gen ai.Generator
}

// NewScopeInferrer creates an inferrer.
func NewScopeInferrer(gen ai.Generator) *ScopeInferrer {
	return &ScopeInferrer{gen: gen}
}

// InferredScope is the result of scope inference.
type InferredScope struct {
	Scope     types.ScopeConfiguration
	Seeds     []string
	Audience  string
	Reasoning string
}

type scopeWire struct {
	AudienceDescription string   `json:"audience_description"`
	AssumedKnowledge    []string `json:"assumed_knowledge"`
	OutOfScope          []string `json:"out_of_scope"`
	FocusAreas          []string `json:"focus_areas"`
	SuggestedSeeds      []string `json:"suggested_seeds"`
	PreferredLanguage   string   `json:"preferred_language"`
	DomainDescription   string   `json:"domain_description"`
	Reasoning           string   `json:"reasoning"`
}

// InferScope infers the scope configuration. It never returns an error:
// a failed call or unusable response degrades to MinimalScope, and the
// session proceeds with that.
func (s *ScopeInferrer) InferScope(ctx context.Context, domain, description string, providedSeeds []string) InferredScope {
	prompt := s.buildPrompt(domain, description, providedSeeds)

	response, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("scope inference call failed, using minimal scope", "domain", domain, "error", err)
		return MinimalScope(domain, providedSeeds)
	}

	result := ai.Parse[scopeWire](response, "scope inference")
	if !result.Success {
		slog.Warn("scope inference response unusable, using minimal scope", "domain", domain, "reason", result.Reason)
		return MinimalScope(domain, providedSeeds)
	}
	w := result.Data

	audience := w.AudienceDescription
	if audience == "" {
		audience = "General technical audience"
	}
	domainDescription := w.DomainDescription
	if domainDescription == "" {
		domainDescription = "A comprehensive guide to " + domain
	}

	// User-provided seeds come first; inferred seeds fill in behind them.
	seeds := append([]string{}, providedSeeds...)
	for _, seed := range w.SuggestedSeeds {
		if seed = strings.TrimSpace(seed); seed == "" {
			continue
		}
		duplicate := false
		for _, have := range seeds {
			if strings.EqualFold(have, seed) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seeds = append(seeds, seed)
		}
	}
	if len(seeds) == 0 {
		seeds = defaultSeeds(domain)
	}

	scope := types.NewScopeConfiguration(types.ScopeConfiguration{
		AssumedKnowledge:    w.AssumedKnowledge,
		OutOfScope:          w.OutOfScope,
		FocusAreas:          w.FocusAreas,
		AudienceDescription: audience,
		DomainDescription:   domainDescription,
		PreferredLanguage:   w.PreferredLanguage,
		Intent:              description,
	})

	return InferredScope{
		Scope:     scope,
		Seeds:     seeds,
		Audience:  audience,
		Reasoning: w.Reasoning,
	}
}

// MinimalScope is the fallback when inference fails.
func MinimalScope(domain string, providedSeeds []string) InferredScope {
	seeds := providedSeeds
	if len(seeds) == 0 {
		seeds = defaultSeeds(domain)
	}
	return InferredScope{
		Scope: types.NewScopeConfiguration(types.ScopeConfiguration{
			DomainDescription:   "A comprehensive guide to " + domain,
			AudienceDescription: "Technical audience",
		}),
		Seeds:     seeds,
		Audience:  "Technical audience",
		Reasoning: "Fallback: using minimal scope due to inference failure",
	}
}

func defaultSeeds(domain string) []string {
	return []string{domain + " Overview", domain + " Fundamentals"}
}

func (s *ScopeInferrer) buildPrompt(domain, description string, providedSeeds []string) string {
	var b strings.Builder
	b.WriteString(`You are an expert knowledge architect planning a comprehensive wiki.
Analyze the domain and infer the scope boundaries for its content.

`)
	b.WriteString("## Domain Analysis Request\n\n")
	fmt.Fprintf(&b, "**Domain Name:** %s\n\n", domain)
	if strings.TrimSpace(description) != "" {
		fmt.Fprintf(&b, "**User Description:** %s\n\n", description)
	} else {
		b.WriteString("**User Description:** (not provided - infer from the domain name)\n\n")
	}
	if len(providedSeeds) > 0 {
		fmt.Fprintf(&b, "**User-Provided Seed Topics:** %s\n", strings.Join(providedSeeds, ", "))
		b.WriteString("The user has already specified these seeds. Suggest additional ones only if clearly valuable.\n\n")
	}

	b.WriteString(`## Task

Respond with JSON in this exact format:
` + "```json" + `
{
  "audience_description": "Brief description of target readers",
  "assumed_knowledge": ["concept 1", "concept 2"],
  "out_of_scope": ["excluded topic 1"],
  "focus_areas": ["emphasis 1"],
  "suggested_seeds": ["topic 1", "topic 2", "topic 3"],
  "preferred_language": "language or framework if applicable, else empty",
  "domain_description": "Brief 1-2 sentence description of the wiki's purpose",
  "reasoning": "Brief explanation of your scope decisions"
}
` + "```" + `

Guidelines:
- assumed_knowledge: what readers should already know (don't teach basics)
- out_of_scope: related topics that should NOT be covered
- suggested_seeds: 3-5 foundational topics if the user didn't provide seeds
- Be specific rather than generic
`)
	return b.String()
}
