package types

import (
	"time"
)

// BacklogEntry is a deferred topic or an outstanding coverage gap kept for a
// later planning pass. Deferred topics carry both fields; gap descriptions
// carry only Description.
type BacklogEntry struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
}

// TopicUniverse is the aggregate snapshot of a discovery session: the full
// topic and relationship lists, scope, and backlog. It is a pure projection
// built on demand and persisted only once, at finalize time.
type TopicUniverse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Topics        []Topic             `json:"topics"`
	Relationships []TopicRelationship `json:"relationships"`
	Scope         ScopeConfiguration  `json:"scope"`
	Backlog       []BacklogEntry      `json:"backlog,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`

	// GenerationOrder lists accepted topic IDs in the order their articles
	// should be authored. Populated by the prioritization pass.
	GenerationOrder []string `json:"generation_order,omitempty"`

	// OrderingCycleDetected flags that the relationship graph contained a
	// cycle and part of the generation order fell back to priority order.
	OrderingCycleDetected bool `json:"ordering_cycle_detected,omitempty"`
}

// AcceptedTopics returns the accepted subset, in insertion order.
func (u *TopicUniverse) AcceptedTopics() []Topic {
	out := make([]Topic, 0, len(u.Topics))
	for _, t := range u.Topics {
		if t.Status == StatusAccepted || t.Status == StatusGenerated {
			out = append(out, t)
		}
	}
	return out
}

// AcceptedCount returns the number of accepted topics.
func (u *TopicUniverse) AcceptedCount() int {
	n := 0
	for _, t := range u.Topics {
		if t.Status == StatusAccepted || t.Status == StatusGenerated {
			n++
		}
	}
	return n
}

// ConfirmedRelationships returns the confirmed subset, in insertion order.
func (u *TopicUniverse) ConfirmedRelationships() []TopicRelationship {
	out := make([]TopicRelationship, 0, len(u.Relationships))
	for _, r := range u.Relationships {
		if r.Status == RelStatusConfirmed {
			out = append(out, r)
		}
	}
	return out
}

// EstimatedWordCount sums the word estimates of all accepted topics.
func (u *TopicUniverse) EstimatedWordCount() int {
	total := 0
	for _, t := range u.AcceptedTopics() {
		total += t.EstimatedWordCount
	}
	return total
}

// LandingPage returns the landing page topic, or nil if none was set.
func (u *TopicUniverse) LandingPage() *Topic {
	for i := range u.Topics {
		if u.Topics[i].IsLandingPage {
			return &u.Topics[i]
		}
	}
	return nil
}

// TopicByID looks up a topic by its stable identifier.
func (u *TopicUniverse) TopicByID(id string) *Topic {
	for i := range u.Topics {
		if u.Topics[i].ID == id {
			return &u.Topics[i]
		}
	}
	return nil
}
