// Package events defines the session event stream. Every significant
// state change in a discovery session emits an event so the CLI (or any
// other frontend) can render progress without reaching into session
// internals.
package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened during a discovery session.
type EventType string

const (
	// EventTypePhaseStarted indicates the session entered a new phase
	EventTypePhaseStarted EventType = "phase_started"
	// EventTypeTopicAccepted indicates a topic suggestion was accepted into the universe
	EventTypeTopicAccepted EventType = "topic_accepted"
	// EventTypeTopicRejected indicates a topic suggestion was rejected
	EventTypeTopicRejected EventType = "topic_rejected"
	// EventTypeTopicDeferred indicates a topic decision was deferred to the backlog
	EventTypeTopicDeferred EventType = "topic_deferred"
	// EventTypeRelationshipConfirmed indicates a relationship was confirmed
	EventTypeRelationshipConfirmed EventType = "relationship_confirmed"
	// EventTypeRoundComplete indicates an expansion round finished
	EventTypeRoundComplete EventType = "round_complete"
	// EventTypeConvergenceReached indicates the stopping criteria were satisfied
	EventTypeConvergenceReached EventType = "convergence_reached"
	// EventTypeGapsFound indicates gap analysis produced results
	EventTypeGapsFound EventType = "gaps_found"
	// EventTypeUniverseComplete indicates the final universe was built
	EventTypeUniverseComplete EventType = "universe_complete"
)

// IsValid checks whether the event type is one of the defined constants.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypePhaseStarted, EventTypeTopicAccepted, EventTypeTopicRejected,
		EventTypeTopicDeferred, EventTypeRelationshipConfirmed, EventTypeRoundComplete,
		EventTypeConvergenceReached, EventTypeGapsFound, EventTypeUniverseComplete:
		return true
	}
	return false
}

// Event is a single occurrence within a discovery session.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id,omitempty"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// New creates an event with a fresh ID and the current timestamp.
func New(eventType EventType, sessionID, message string, data map[string]any) Event {
	if data == nil {
		data = make(map[string]any)
	}
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		SessionID: sessionID,
		Message:   message,
		Data:      data,
	}
}

// Sink receives session events. Implementations must be cheap: sessions
// emit inline and do not buffer.
type Sink interface {
	Emit(event Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(event Event)

// Emit calls the function.
func (f SinkFunc) Emit(event Event) { f(event) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Recorder is a Sink that retains events in order, for tests and for
// session replay in the CLI.
type Recorder struct {
	events []Event
}

// Emit appends the event.
func (r *Recorder) Emit(event Event) {
	r.events = append(r.events, event)
}

// Events returns the recorded events in emission order.
func (r *Recorder) Events() []Event {
	return r.events
}

// OfType returns the recorded events matching the given type.
func (r *Recorder) OfType(eventType EventType) []Event {
	var out []Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
