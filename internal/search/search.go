// Package search validates AI-suggested topic names against external
// knowledge bases to estimate how likely they are to exist in the real
// world ("search grounding"). Wikipedia is the primary provider; Wikidata
// is consulted as a stricter fallback when Wikipedia finds nothing.
package search

import (
	"context"
	"strings"
)

// Result is one knowledge-base hit.
type Result struct {
	Title   string
	Snippet string
}

// Backend is a single knowledge-base provider.
type Backend interface {
	// Name returns the backend identifier.
	Name() string

	// Lookup returns candidate titles (and aliases, where the provider has
	// them) matching the query.
	Lookup(ctx context.Context, query string) ([]string, error)

	// Search returns full results with snippets for prompt grounding.
	Search(ctx context.Context, query string) ([]Result, error)
}

// Validator scores a topic name's real-world presence.
type Validator interface {
	// ValidateTopic returns a confidence in [0,1]; see MatchConfidence for
	// the band semantics.
	ValidateTopic(ctx context.Context, name string) (float64, error)

	// Search returns knowledge-base results for grounding expansion prompts.
	Search(ctx context.Context, query string) ([]Result, error)
}

// MatchConfidence scores how well a topic name matches a set of candidate
// titles, returning the best score:
//
//	exact title/alias match          1.0
//	substring containment            0.85
//	proportional word overlap        0.5–0.85
//	partial-word match               0.35–0.6
//	no match                         0.0
func MatchConfidence(name string, candidates []string) float64 {
	topic := normalize(name)
	if topic == "" {
		return 0
	}
	topicWords := strings.Fields(topic)

	best := 0.0
	for _, candidate := range candidates {
		c := normalize(candidate)
		if c == "" {
			continue
		}

		var score float64
		switch {
		case c == topic:
			score = 1.0
		case strings.Contains(c, topic) || strings.Contains(topic, c):
			score = 0.85
		default:
			score = overlapScore(topicWords, strings.Fields(c))
		}
		if score > best {
			best = score
		}
		if best == 1.0 {
			break
		}
	}
	return best
}

// overlapScore rates word-level overlap between the topic and a candidate.
func overlapScore(topicWords, candidateWords []string) float64 {
	if len(topicWords) == 0 || len(candidateWords) == 0 {
		return 0
	}

	candidateSet := make(map[string]bool, len(candidateWords))
	for _, w := range candidateWords {
		candidateSet[w] = true
	}

	whole := 0
	partial := 0
	for _, w := range topicWords {
		if candidateSet[w] {
			whole++
			continue
		}
		for _, cw := range candidateWords {
			if len(w) >= 4 && len(cw) >= 4 &&
				(strings.Contains(cw, w) || strings.Contains(w, cw)) {
				partial++
				break
			}
		}
	}

	if whole > 0 {
		ratio := float64(whole) / float64(len(topicWords))
		return 0.5 + 0.35*ratio // 0.5–0.85 proportional to overlap
	}
	if partial > 0 {
		ratio := float64(partial) / float64(len(topicWords))
		return 0.35 + 0.25*ratio // 0.35–0.6
	}
	return 0
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
