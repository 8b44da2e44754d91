package search

import (
	"context"
	"log/slog"
	"net/http"
)

// secondaryConfidenceCap bounds scores from the fallback provider: it is
// consulted only when the primary found nothing, and a fallback hit should
// never outrank a primary exact match.
const secondaryConfidenceCap = 0.85

// GroundingValidator combines a primary and a stricter secondary backend.
type GroundingValidator struct {
	primary   Backend
	secondary Backend
}

// NewGroundingValidator wires the default Wikipedia + Wikidata pair.
func NewGroundingValidator(client *http.Client) *GroundingValidator {
	return &GroundingValidator{
		primary:   NewWikipediaBackend(client),
		secondary: NewWikidataBackend(client),
	}
}

// NewGroundingValidatorWith allows substituting backends (for tests or
// alternative knowledge bases).
func NewGroundingValidatorWith(primary, secondary Backend) *GroundingValidator {
	return &GroundingValidator{primary: primary, secondary: secondary}
}

// ValidateTopic scores a topic name's real-world presence. Primary provider
// errors degrade to the secondary rather than failing the suggestion: the
// caller treats an error as "not validated", which carries its own penalty.
func (v *GroundingValidator) ValidateTopic(ctx context.Context, name string) (float64, error) {
	titles, err := v.primary.Lookup(ctx, name)
	if err == nil {
		if confidence := MatchConfidence(name, titles); confidence > 0 {
			return confidence, nil
		}
	} else {
		slog.Debug("primary lookup failed, falling back",
			"backend", v.primary.Name(), "topic", name, "error", err)
	}

	if v.secondary == nil {
		return 0, err
	}

	labels, serr := v.secondary.Lookup(ctx, name)
	if serr != nil {
		if err != nil {
			return 0, err
		}
		return 0, serr
	}

	confidence := MatchConfidence(name, labels)
	if confidence > secondaryConfidenceCap {
		confidence = secondaryConfidenceCap
	}
	return confidence, nil
}

// Search returns grounding results from the primary provider.
func (v *GroundingValidator) Search(ctx context.Context, query string) ([]Result, error) {
	return v.primary.Search(ctx, query)
}
