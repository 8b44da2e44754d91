package types

import (
	"sort"
	"strings"
)

// ScopeConfiguration describes the boundaries of a wiki: what readers are
// assumed to know, what is excluded, and what to emphasize. It is immutable
// once built: sessions replace the whole value rather than mutating fields,
// which keeps prompt construction deterministic.
type ScopeConfiguration struct {
	AssumedKnowledge    []string `json:"assumed_knowledge,omitempty"`
	OutOfScope          []string `json:"out_of_scope,omitempty"`
	FocusAreas          []string `json:"focus_areas,omitempty"`
	AudienceDescription string   `json:"audience_description,omitempty"`
	DomainDescription   string   `json:"domain_description,omitempty"`
	PreferredLanguage   string   `json:"preferred_language,omitempty"`
	Intent              string   `json:"intent,omitempty"`
}

// NewScopeConfiguration normalizes the string sets: entries are trimmed,
// deduplicated case-insensitively, and sorted so two scopes built from the
// same inputs render identical prompts.
func NewScopeConfiguration(cfg ScopeConfiguration) ScopeConfiguration {
	cfg.AssumedKnowledge = normalizeSet(cfg.AssumedKnowledge)
	cfg.OutOfScope = normalizeSet(cfg.OutOfScope)
	cfg.FocusAreas = normalizeSet(cfg.FocusAreas)
	return cfg
}

// IsZero reports whether no scope information has been provided.
func (s ScopeConfiguration) IsZero() bool {
	return len(s.AssumedKnowledge) == 0 && len(s.OutOfScope) == 0 &&
		len(s.FocusAreas) == 0 && s.AudienceDescription == "" &&
		s.DomainDescription == "" && s.PreferredLanguage == "" && s.Intent == ""
}

// PromptFormat renders the scope for inclusion in AI prompts.
func (s ScopeConfiguration) PromptFormat() string {
	var b strings.Builder
	if len(s.AssumedKnowledge) > 0 {
		b.WriteString("Assumed knowledge (do not cover): ")
		b.WriteString(strings.Join(s.AssumedKnowledge, ", "))
		b.WriteString("\n")
	}
	if len(s.OutOfScope) > 0 {
		b.WriteString("Out of scope (exclude): ")
		b.WriteString(strings.Join(s.OutOfScope, ", "))
		b.WriteString("\n")
	}
	if len(s.FocusAreas) > 0 {
		b.WriteString("Focus areas (prioritize): ")
		b.WriteString(strings.Join(s.FocusAreas, ", "))
		b.WriteString("\n")
	}
	if s.AudienceDescription != "" {
		b.WriteString("Target audience: ")
		b.WriteString(s.AudienceDescription)
		b.WriteString("\n")
	}
	if s.PreferredLanguage != "" {
		b.WriteString("Preferred language/tooling: ")
		b.WriteString(s.PreferredLanguage)
		b.WriteString("\n")
	}
	if s.Intent != "" {
		b.WriteString("Intent: ")
		b.WriteString(s.Intent)
		b.WriteString("\n")
	}
	return b.String()
}

// Excludes reports whether a topic name falls in the out-of-scope set
// (case-insensitive exact match).
func (s ScopeConfiguration) Excludes(name string) bool {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, excluded := range s.OutOfScope {
		if strings.ToLower(excluded) == needle {
			return true
		}
	}
	return false
}

func normalizeSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
