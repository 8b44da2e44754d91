package types

import (
	"fmt"
	"strings"
)

// RelationshipType is the semantic kind of a directed edge between topics.
type RelationshipType string

const (
	RelPrerequisiteOf RelationshipType = "prerequisite_of"
	RelPartOf         RelationshipType = "part_of"
	RelRelatedTo      RelationshipType = "related_to"
	RelExampleOf      RelationshipType = "example_of"
	RelContrastsWith  RelationshipType = "contrasts_with"
	RelImplements     RelationshipType = "implements"
	RelSupersedes     RelationshipType = "supersedes"
	RelPairsWith      RelationshipType = "pairs_with"
)

// IsValid checks if the relationship type value is valid.
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelPrerequisiteOf, RelPartOf, RelRelatedTo, RelExampleOf,
		RelContrastsWith, RelImplements, RelSupersedes, RelPairsWith:
		return true
	}
	return false
}

// ImpliesOrdering reports whether edges of this type constrain generation
// order (the source must be generated before the target).
func (t RelationshipType) ImpliesOrdering() bool {
	switch t {
	case RelPrerequisiteOf, RelImplements, RelSupersedes:
		return true
	}
	return false
}

// ParseRelationshipType maps a free-form label onto a RelationshipType,
// defaulting to related_to for anything unrecognized.
func ParseRelationshipType(s string) RelationshipType {
	t := RelationshipType(strings.ToLower(strings.TrimSpace(s)))
	if t.IsValid() {
		return t
	}
	return RelRelatedTo
}

// RelationshipStatus is the lifecycle state of a relationship edge.
type RelationshipStatus string

const (
	RelStatusProposed  RelationshipStatus = "proposed"
	RelStatusConfirmed RelationshipStatus = "confirmed"
	RelStatusRejected  RelationshipStatus = "rejected"
)

// IsValid checks if the relationship status value is valid.
func (s RelationshipStatus) IsValid() bool {
	switch s {
	case RelStatusProposed, RelStatusConfirmed, RelStatusRejected:
		return true
	}
	return false
}

// TopicRelationship is a directed, typed edge between two topic IDs.
type TopicRelationship struct {
	SourceID string             `json:"source_id"`
	TargetID string             `json:"target_id"`
	Type     RelationshipType   `json:"type"`
	Status   RelationshipStatus `json:"status"`
}

// NewTopicRelationship builds a proposed edge, rejecting self-references.
func NewTopicRelationship(sourceID, targetID string, relType RelationshipType) (*TopicRelationship, error) {
	if sourceID == "" || targetID == "" {
		return nil, fmt.Errorf("relationship endpoints are required")
	}
	if sourceID == targetID {
		return nil, fmt.Errorf("relationship cannot be self-referential: %s", sourceID)
	}
	if !relType.IsValid() {
		return nil, fmt.Errorf("invalid relationship type: %s", relType)
	}
	return &TopicRelationship{
		SourceID: sourceID,
		TargetID: targetID,
		Type:     relType,
		Status:   RelStatusProposed,
	}, nil
}

// Key returns the uniqueness key for a confirmed edge.
func (r *TopicRelationship) Key() string {
	return r.SourceID + "\x00" + r.TargetID + "\x00" + string(r.Type)
}

// Validate checks if the relationship has valid field values.
func (r *TopicRelationship) Validate() error {
	if r.SourceID == "" || r.TargetID == "" {
		return fmt.Errorf("endpoints are required")
	}
	if r.SourceID == r.TargetID {
		return fmt.Errorf("self-referential edge: %s", r.SourceID)
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("invalid type: %s", r.Type)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", r.Status)
	}
	return nil
}
