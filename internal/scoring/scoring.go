// Package scoring centralizes the threshold constants and pure score
// functions used by curation decisions throughout discovery.
package scoring

const (
	// RelevanceWeight is applied to the AI-assessed relevance in the
	// combined quality score. Relevance weighs more than search confidence
	// because it captures semantic fit to the domain.
	RelevanceWeight = 0.6

	// SearchConfidenceWeight is applied to search confidence in the combined
	// quality score. Search grounding matters, but some valid topics have
	// limited search presence.
	SearchConfidenceWeight = 0.4

	// NonValidatedPenalty is the multiplier applied to relevance-only scores
	// for suggestions that were never search-validated. A 30% penalty
	// discourages unverifiable claims without discarding them.
	NonValidatedPenalty = 0.7

	// AcceptSearchThreshold is the minimum search confidence required for
	// autonomous acceptance. Below this, even high-relevance topics go to
	// AI reasoning.
	AcceptSearchThreshold = 0.3

	// AutoRejectScoreThreshold is the quality score floor below which topics
	// are auto-rejected.
	AutoRejectScoreThreshold = 0.4

	// AutoRejectSearchThreshold is the search confidence below which a
	// validated topic is auto-rejected as likely fabricated.
	AutoRejectSearchThreshold = 0.2

	// HighConfidenceThreshold marks suggestions eligible for auto-accept.
	HighConfidenceThreshold = 0.8

	// MediumConfidenceThreshold marks suggestions acceptable but borderline.
	MediumConfidenceThreshold = 0.5

	// LowConfidenceThreshold marks suggestions that warrant caution
	// (display purposes only).
	LowConfidenceThreshold = 0.3

	// RelationshipRejectThreshold is the confidence below which relationship
	// suggestions are rejected. Lower than topic thresholds since
	// relationship detection is noisier.
	RelationshipRejectThreshold = 0.4

	// DefaultConfidence is used when no value is provided or validation of
	// the provided value fails.
	DefaultConfidence = 0.5

	// NotValidated is the sentinel search confidence for suggestions that
	// were never checked against a knowledge base.
	NotValidated = -1.0

	// DefaultAcceptThreshold is the default autonomous accept threshold.
	DefaultAcceptThreshold = 0.75
)

// QualityScore combines relevance and search confidence into a single score
// in [0,1]. Unvalidated suggestions (searchConfidence < 0) score on
// penalized relevance alone.
func QualityScore(relevance, searchConfidence float64) float64 {
	if searchConfidence < 0 {
		return relevance * NonValidatedPenalty
	}
	return relevance*RelevanceWeight + searchConfidence*SearchConfidenceWeight
}
