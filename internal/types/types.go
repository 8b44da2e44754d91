// Package types defines the graph model for a topic universe: topics,
// relationships between them, scope boundaries, and the universe snapshot.
package types

import (
	"fmt"
	"strings"
)

// Topic is a unit of planned wiki content. Topics are owned by a discovery
// session and mutated only through its operations, never directly.
type Topic struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Status             TopicStatus     `json:"status"`
	ContentType        ContentType     `json:"content_type"`
	Complexity         ComplexityLevel `json:"complexity"`
	EstimatedWordCount int             `json:"estimated_word_count"`
	Priority           Priority        `json:"priority"`
	Category           string          `json:"category,omitempty"`
	IsLandingPage      bool            `json:"is_landing_page,omitempty"`
	Emphasize          []string        `json:"emphasize,omitempty"`
	SkipSections       []string        `json:"skip_sections,omitempty"`
	AddedReason        string          `json:"added_reason,omitempty"`
}

// NewTopic creates a topic with defaults normalized. The ID is derived from
// the name; out-of-range or zero fields are clamped to sane values rather
// than rejected, since suggestion sources routinely omit them.
func NewTopic(name, description string) (*Topic, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("topic name is required")
	}
	t := &Topic{
		ID:          DeriveTopicID(name),
		Name:        name,
		Description: description,
		Status:      StatusProposed,
		ContentType: ContentConcept,
		Complexity:  ComplexityIntermediate,
		Priority:    PriorityShouldHave,
	}
	t.EstimatedWordCount = t.Complexity.MinWords()
	return t, nil
}

// Validate checks if the topic has valid field values.
func (t *Topic) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if !t.ContentType.IsValid() {
		return fmt.Errorf("invalid content type: %s", t.ContentType)
	}
	if !t.Complexity.IsValid() {
		return fmt.Errorf("invalid complexity: %s", t.Complexity)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", t.Priority)
	}
	if t.EstimatedWordCount < 0 {
		return fmt.Errorf("estimated_word_count cannot be negative")
	}
	return nil
}

// DeriveTopicID produces the stable identifier for a topic name: lowercase,
// runs of non-alphanumerics collapsed to a single hyphen.
func DeriveTopicID(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// TopicStatus represents the lifecycle state of a topic.
type TopicStatus string

const (
	StatusProposed  TopicStatus = "proposed"
	StatusAccepted  TopicStatus = "accepted"
	StatusRejected  TopicStatus = "rejected"
	StatusDeferred  TopicStatus = "deferred"
	StatusGenerated TopicStatus = "generated"
)

// IsValid checks if the status value is valid.
func (s TopicStatus) IsValid() bool {
	switch s {
	case StatusProposed, StatusAccepted, StatusRejected, StatusDeferred, StatusGenerated:
		return true
	}
	return false
}

// ContentType classifies what kind of article a topic should become.
type ContentType string

const (
	ContentConcept         ContentType = "concept"
	ContentTutorial        ContentType = "tutorial"
	ContentReference       ContentType = "reference"
	ContentHowTo           ContentType = "how_to"
	ContentComparison      ContentType = "comparison"
	ContentTroubleshooting ContentType = "troubleshooting"
)

// IsValid checks if the content type value is valid.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentConcept, ContentTutorial, ContentReference, ContentHowTo,
		ContentComparison, ContentTroubleshooting:
		return true
	}
	return false
}

// ParseContentType maps a free-form label (as an AI tends to emit it) onto a
// ContentType, defaulting to concept for anything unrecognized.
func ParseContentType(s string) ContentType {
	c := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if c == "howto" || c == "how-to" {
		c = ContentHowTo
	}
	if c.IsValid() {
		return c
	}
	return ContentConcept
}

// ComplexityLevel indicates how advanced a topic's treatment should be.
type ComplexityLevel string

const (
	ComplexityBeginner     ComplexityLevel = "beginner"
	ComplexityIntermediate ComplexityLevel = "intermediate"
	ComplexityAdvanced     ComplexityLevel = "advanced"
)

// IsValid checks if the complexity value is valid.
func (c ComplexityLevel) IsValid() bool {
	switch c {
	case ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced:
		return true
	}
	return false
}

// MinWords returns the minimum target word count for articles at this level.
func (c ComplexityLevel) MinWords() int {
	switch c {
	case ComplexityBeginner:
		return 600
	case ComplexityAdvanced:
		return 2000
	default:
		return 1000
	}
}

// Rank orders complexity levels (beginner < intermediate < advanced), used
// when a cost profile caps the maximum allowed complexity.
func (c ComplexityLevel) Rank() int {
	switch c {
	case ComplexityBeginner:
		return 0
	case ComplexityAdvanced:
		return 2
	default:
		return 1
	}
}

// ParseComplexity maps a free-form label onto a ComplexityLevel, defaulting
// to intermediate.
func ParseComplexity(s string) ComplexityLevel {
	c := ComplexityLevel(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c
	}
	return ComplexityIntermediate
}

// Priority is the generation priority tier for an accepted topic.
type Priority string

const (
	PriorityMustHave   Priority = "must_have"
	PriorityShouldHave Priority = "should_have"
	PriorityNiceToHave Priority = "nice_to_have"
)

// IsValid checks if the priority value is valid.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityMustHave, PriorityShouldHave, PriorityNiceToHave:
		return true
	}
	return false
}

// Rank orders priorities for tie-breaking (lower value = generate earlier).
func (p Priority) Rank() int {
	switch p {
	case PriorityMustHave:
		return 0
	case PriorityShouldHave:
		return 1
	default:
		return 2
	}
}
