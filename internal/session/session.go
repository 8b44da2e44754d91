// Package session implements the discovery session: a single-owner state
// machine holding the topic graph while it is being built. All graph
// mutation flows through session operations so the invariants hold at
// every step: accepted topic names are case-insensitively unique,
// confirmed (source, target, type) triples are unique, and rejected
// names are remembered to block re-suggestion.
//
// Suggestion sources are unreliable, so invariant violations are not
// errors. A duplicate topic or a dangling relationship is silently
// dropped and the reason recorded for later inspection.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wikiplan/wikiplan/internal/events"
	"github.com/wikiplan/wikiplan/internal/suggest"
	"github.com/wikiplan/wikiplan/internal/types"
)

// Note records why an operation was a no-op or why an item was dropped.
type Note struct {
	Subject string
	Reason  string
}

// DiscoverySession owns the topic graph for one discovery run. It is not
// safe for concurrent mutation; exactly one orchestrator drives it.
type DiscoverySession struct {
	id          string
	domain      string
	description string
	phase       Phase
	createdAt   time.Time

	skipGapAnalysis bool
	scope           types.ScopeConfiguration
	seeds           []string

	topics     []*types.Topic
	topicByID  map[string]int    // topic ID -> index into topics
	nameStatus map[string]string // lower(name) -> topic ID, any status

	accepted map[string]string // lower(name) -> topic ID
	rejected map[string]bool   // lower(name)
	deferred map[string]bool   // lower(name)

	relationships []types.TopicRelationship
	confirmedKeys map[string]bool

	backlog []types.BacklogEntry
	notes   []Note

	generationOrder []string
	orderingCycle   bool

	sink events.Sink
}

// New creates a session for the given domain. A blank domain is a caller
// error; everything downstream assumes a non-empty name.
func New(domain, description string) (*DiscoverySession, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, fmt.Errorf("domain name is required")
	}
	return &DiscoverySession{
		id:            uuid.New().String(),
		domain:        strings.TrimSpace(domain),
		description:   description,
		phase:         PhaseSeedInput,
		createdAt:     time.Now(),
		topicByID:     make(map[string]int),
		nameStatus:    make(map[string]string),
		accepted:      make(map[string]string),
		rejected:      make(map[string]bool),
		deferred:      make(map[string]bool),
		confirmedKeys: make(map[string]bool),
		sink:          events.Discard,
	}, nil
}

// SetSink directs session events to the given sink. A nil sink restores
// the discard default.
func (s *DiscoverySession) SetSink(sink events.Sink) {
	if sink == nil {
		sink = events.Discard
	}
	s.sink = sink
}

// SetSkipGapAnalysis marks the gap analysis phase skippable, per the cost
// profile.
func (s *DiscoverySession) SetSkipGapAnalysis(skip bool) {
	s.skipGapAnalysis = skip
}

// ID returns the session identifier, which becomes the universe ID.
func (s *DiscoverySession) ID() string { return s.id }

// Domain returns the domain name the session was created for.
func (s *DiscoverySession) Domain() string { return s.domain }

// Phase returns the current workflow phase.
func (s *DiscoverySession) Phase() Phase { return s.phase }

// Scope returns the current scope configuration.
func (s *DiscoverySession) Scope() types.ScopeConfiguration { return s.scope }

// SetScope replaces the scope wholesale. Scope is never field-mutated.
func (s *DiscoverySession) SetScope(scope types.ScopeConfiguration) {
	s.scope = scope
}

// Seeds returns the user-supplied seed topic names, in the order added.
func (s *DiscoverySession) Seeds() []string {
	return append([]string{}, s.seeds...)
}

// Notes returns the recorded drop/no-op reasons, in order.
func (s *DiscoverySession) Notes() []Note {
	return append([]Note{}, s.notes...)
}

// Advance moves the session forward exactly one phase. Advancing a
// completed session is a no-op.
func (s *DiscoverySession) Advance() Phase {
	if s.phase.IsTerminal() {
		return s.phase
	}
	s.phase = s.phase.next(s.skipGapAnalysis)
	s.emit(events.EventTypePhaseStarted, string(s.phase), map[string]any{
		"phase": string(s.phase),
	})
	return s.phase
}

// AddSeedTopic adds a user-supplied topic directly as accepted, bypassing
// curation. Duplicate names are silent no-ops.
func (s *DiscoverySession) AddSeedTopic(name, description string) *types.Topic {
	t, err := types.NewTopic(name, description)
	if err != nil {
		s.note(name, err.Error())
		return nil
	}
	t.Status = types.StatusAccepted
	t.Priority = types.PriorityMustHave
	t.AddedReason = "user-provided seed topic"
	if !s.insertAccepted(t) {
		return nil
	}
	s.seeds = append(s.seeds, t.Name)
	return t
}

// AddLandingPage adds the universe's landing page topic. Only one landing
// page exists; a second call is a recorded no-op.
func (s *DiscoverySession) AddLandingPage(name, description string) *types.Topic {
	for _, existing := range s.topics {
		if existing.IsLandingPage {
			s.note(name, "landing page already set: "+existing.Name)
			return nil
		}
	}
	t, err := types.NewTopic(name, description)
	if err != nil {
		s.note(name, err.Error())
		return nil
	}
	t.Status = types.StatusAccepted
	t.Priority = types.PriorityMustHave
	t.IsLandingPage = true
	t.ContentType = types.ContentConcept
	t.AddedReason = "landing page"
	if !s.insertAccepted(t) {
		return nil
	}
	return t
}

// AcceptTopicSuggestion promotes a candidate to an accepted topic. The
// operation is idempotent: if the name is already accepted, or was
// previously rejected, nothing changes and the reason is recorded.
func (s *DiscoverySession) AcceptTopicSuggestion(c suggest.TopicSuggestion) *types.Topic {
	key := nameKey(c.Name)
	if s.rejected[key] {
		s.note(c.Name, "previously rejected, not re-accepting")
		return nil
	}
	t, err := c.ToTopic(types.StatusAccepted)
	if err != nil {
		s.note(c.Name, err.Error())
		return nil
	}
	if !s.insertAccepted(t) {
		return nil
	}
	if s.deferred[key] {
		delete(s.deferred, key)
		s.removeFromBacklog(key)
	}
	s.emit(events.EventTypeTopicAccepted, t.Name, map[string]any{
		"topic_id": t.ID,
		"score":    c.QualityScore(),
	})
	return t
}

// removeFromBacklog drops a deferred topic's backlog entry once the name is
// promoted. Gap descriptions carry no name and are never removed here.
func (s *DiscoverySession) removeFromBacklog(key string) {
	kept := s.backlog[:0]
	for _, entry := range s.backlog {
		if entry.Name != "" && nameKey(entry.Name) == key {
			continue
		}
		kept = append(kept, entry)
	}
	s.backlog = kept
}

// RejectTopicSuggestion records a candidate as rejected. Rejection is a
// terminal status, kept for audit and to block re-suggestion, not a
// removal. Repeat rejections are no-ops.
func (s *DiscoverySession) RejectTopicSuggestion(c suggest.TopicSuggestion) {
	key := nameKey(c.Name)
	if s.rejected[key] {
		return
	}
	if _, ok := s.accepted[key]; ok {
		s.note(c.Name, "already accepted, rejection ignored")
		return
	}
	t, err := c.ToTopic(types.StatusRejected)
	if err != nil {
		s.note(c.Name, err.Error())
		return
	}
	s.insertTopic(t)
	s.rejected[key] = true
	delete(s.deferred, key)
	s.emit(events.EventTypeTopicRejected, t.Name, nil)
}

// DeferTopicSuggestion moves a candidate to the backlog for a later
// planning pass.
func (s *DiscoverySession) DeferTopicSuggestion(c suggest.TopicSuggestion) {
	key := nameKey(c.Name)
	if s.deferred[key] {
		return
	}
	if _, ok := s.accepted[key]; ok {
		s.note(c.Name, "already accepted, deferral ignored")
		return
	}
	if s.rejected[key] {
		s.note(c.Name, "already rejected, deferral ignored")
		return
	}
	t, err := c.ToTopic(types.StatusDeferred)
	if err != nil {
		s.note(c.Name, err.Error())
		return
	}
	s.insertTopic(t)
	s.deferred[key] = true
	s.backlog = append(s.backlog, types.BacklogEntry{Name: c.Name, Description: c.Description})
	s.emit(events.EventTypeTopicDeferred, t.Name, nil)
}

// ModifyAndAcceptTopic applies field overrides to a candidate and accepts
// the result. Unknown override keys are recorded and skipped.
func (s *DiscoverySession) ModifyAndAcceptTopic(c suggest.TopicSuggestion, overrides map[string]string) *types.Topic {
	for field, value := range overrides {
		switch field {
		case "name":
			if strings.TrimSpace(value) != "" {
				c.Name = value
			}
		case "description":
			c.Description = value
		case "category":
			c.Category = value
		case "content_type":
			c.SuggestedContentType = types.ParseContentType(value)
		case "complexity":
			c.SuggestedComplexity = types.ParseComplexity(value)
			c.SuggestedWordCount = c.SuggestedComplexity.MinWords()
		case "estimated_word_count":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
				c.SuggestedWordCount = n
			}
		default:
			s.note(c.Name, "unknown modification field: "+field)
		}
	}
	return s.AcceptTopicSuggestion(c)
}

// ConfirmRelationship resolves a suggested edge against known topics and
// confirms it. Dangling endpoints, self-references after resolution, and
// duplicate (source, target, type) triples are dropped with a recorded
// reason.
func (s *DiscoverySession) ConfirmRelationship(c suggest.RelationshipSuggestion) *types.TopicRelationship {
	source, target, ok := s.resolveEndpoints(c)
	if !ok {
		return nil
	}
	edge, err := types.NewTopicRelationship(source, target, c.Type)
	if err != nil {
		s.note(c.Describe(), err.Error())
		return nil
	}
	if s.confirmedKeys[edge.Key()] {
		s.note(c.Describe(), "relationship already confirmed")
		return nil
	}
	edge.Status = types.RelStatusConfirmed
	s.relationships = append(s.relationships, *edge)
	s.confirmedKeys[edge.Key()] = true
	s.emit(events.EventTypeRelationshipConfirmed, c.Describe(), map[string]any{
		"source_id": source,
		"target_id": target,
		"type":      string(c.Type),
	})
	return edge
}

// RetypeAndConfirmRelationship confirms a suggested edge under a corrected
// type. An invalid type is a recorded no-op; uniqueness applies to the
// corrected (source, target, type) triple.
func (s *DiscoverySession) RetypeAndConfirmRelationship(c suggest.RelationshipSuggestion, newType types.RelationshipType) *types.TopicRelationship {
	if !newType.IsValid() {
		s.note(c.Describe(), "invalid relationship type: "+string(newType))
		return nil
	}
	c.Type = newType
	return s.ConfirmRelationship(c)
}

// RejectRelationship records a suggested edge as rejected, for audit.
// Edges whose endpoints do not resolve are dropped silently.
func (s *DiscoverySession) RejectRelationship(c suggest.RelationshipSuggestion) {
	source, target, ok := s.resolveEndpoints(c)
	if !ok {
		return
	}
	edge, err := types.NewTopicRelationship(source, target, c.Type)
	if err != nil {
		s.note(c.Describe(), err.Error())
		return
	}
	edge.Status = types.RelStatusRejected
	s.relationships = append(s.relationships, *edge)
}

// AddressGapWithTopic materializes a coverage gap as an accepted topic.
// The gap type lands in the topic's provenance note.
func (s *DiscoverySession) AddressGapWithTopic(gapType, gapDescription, topicName string) *types.Topic {
	t, err := types.NewTopic(topicName, gapDescription)
	if err != nil {
		s.note(topicName, err.Error())
		return nil
	}
	t.Status = types.StatusAccepted
	t.Priority = types.PriorityShouldHave
	t.AddedReason = "gap analysis: " + gapType
	if !s.insertAccepted(t) {
		return nil
	}
	s.emit(events.EventTypeTopicAccepted, t.Name, map[string]any{
		"topic_id": t.ID,
		"gap_type": gapType,
	})
	return t
}

// AddGaps records outstanding gap descriptions in the backlog without
// materializing topics.
func (s *DiscoverySession) AddGaps(descriptions []string) {
	for _, d := range descriptions {
		if strings.TrimSpace(d) == "" {
			continue
		}
		s.backlog = append(s.backlog, types.BacklogEntry{Description: d})
	}
}

// IgnoreGap acknowledges a gap and discards it, keeping only the reason.
func (s *DiscoverySession) IgnoreGap(description string) {
	s.note(description, "gap acknowledged and discarded")
}

// UpdateTopicPriority overrides the priority of an accepted topic.
// Unknown IDs and invalid priorities are recorded no-ops.
func (s *DiscoverySession) UpdateTopicPriority(id string, priority types.Priority) {
	if !priority.IsValid() {
		s.note(id, "invalid priority: "+string(priority))
		return
	}
	i, ok := s.topicByID[id]
	if !ok {
		s.note(id, "unknown topic id")
		return
	}
	s.topics[i].Priority = priority
}

// CalibrateTopicDepth overrides the complexity of an accepted topic and
// rebases its word estimate on the new level. Unknown IDs and invalid
// levels are recorded no-ops.
func (s *DiscoverySession) CalibrateTopicDepth(id string, level types.ComplexityLevel) {
	if !level.IsValid() {
		s.note(id, "invalid complexity level: "+string(level))
		return
	}
	i, ok := s.topicByID[id]
	if !ok {
		s.note(id, "unknown topic id")
		return
	}
	s.topics[i].Complexity = level
	s.topics[i].EstimatedWordCount = level.MinWords()
}

// SetGenerationOrder records the result of the prioritization pass.
func (s *DiscoverySession) SetGenerationOrder(order []string, cycleDetected bool) {
	s.generationOrder = append([]string{}, order...)
	s.orderingCycle = cycleDetected
}

// AcceptedCount returns the number of accepted topics.
func (s *DiscoverySession) AcceptedCount() int {
	return len(s.accepted)
}

// AcceptedNames returns the accepted topic names in insertion order.
func (s *DiscoverySession) AcceptedNames() []string {
	out := make([]string, 0, len(s.accepted))
	for _, t := range s.topics {
		if t.Status == types.StatusAccepted {
			out = append(out, t.Name)
		}
	}
	return out
}

// ProcessedNames returns every name that was accepted, rejected, or
// deferred, in insertion order. Curation uses this as its duplicate set.
func (s *DiscoverySession) ProcessedNames() []string {
	out := make([]string, 0, len(s.topics))
	for _, t := range s.topics {
		out = append(out, t.Name)
	}
	return out
}

// AcceptedTopics returns the accepted topics in insertion order.
func (s *DiscoverySession) AcceptedTopics() []*types.Topic {
	out := make([]*types.Topic, 0, len(s.accepted))
	for _, t := range s.topics {
		if t.Status == types.StatusAccepted {
			out = append(out, t)
		}
	}
	return out
}

// ConfirmedRelationships returns the confirmed edges in insertion order.
func (s *DiscoverySession) ConfirmedRelationships() []types.TopicRelationship {
	out := make([]types.TopicRelationship, 0, len(s.relationships))
	for _, r := range s.relationships {
		if r.Status == types.RelStatusConfirmed {
			out = append(out, r)
		}
	}
	return out
}

// IsProcessed reports whether a name has already been accepted, rejected,
// or deferred, under case-insensitive comparison. Curation uses this as
// its duplicate check.
func (s *DiscoverySession) IsProcessed(name string) bool {
	key := nameKey(name)
	if _, ok := s.accepted[key]; ok {
		return true
	}
	return s.rejected[key] || s.deferred[key]
}

// BuildUniverse projects the current state into a universe snapshot. It
// is pure and repeatable: callable at any phase, always consistent with
// current state, and never aliases session-owned memory.
func (s *DiscoverySession) BuildUniverse() *types.TopicUniverse {
	topics := make([]types.Topic, len(s.topics))
	for i, t := range s.topics {
		topics[i] = *t
		topics[i].Emphasize = append([]string{}, t.Emphasize...)
		topics[i].SkipSections = append([]string{}, t.SkipSections...)
	}
	return &types.TopicUniverse{
		ID:                    s.id,
		Name:                  s.domain,
		Description:           s.description,
		Topics:                topics,
		Relationships:         append([]types.TopicRelationship{}, s.relationships...),
		Scope:                 s.scope,
		Backlog:               append([]types.BacklogEntry{}, s.backlog...),
		CreatedAt:             s.createdAt,
		GenerationOrder:       append([]string{}, s.generationOrder...),
		OrderingCycleDetected: s.orderingCycle,
	}
}

// insertAccepted inserts a topic as accepted, enforcing case-insensitive
// name uniqueness. Returns false on a duplicate, which is recorded.
func (s *DiscoverySession) insertAccepted(t *types.Topic) bool {
	key := nameKey(t.Name)
	if existing, ok := s.accepted[key]; ok {
		s.note(t.Name, "topic already accepted as "+existing)
		return false
	}
	// A previously deferred or rejected topic record may share the name.
	// The accepted topic gets its own entry; history stays intact.
	if _, taken := s.topicByID[t.ID]; taken {
		t.ID = t.ID + "-" + strconv.Itoa(len(s.topics))
	}
	s.insertTopic(t)
	s.accepted[key] = t.ID
	return true
}

func (s *DiscoverySession) insertTopic(t *types.Topic) {
	if _, taken := s.topicByID[t.ID]; taken {
		t.ID = t.ID + "-" + strconv.Itoa(len(s.topics))
	}
	s.topics = append(s.topics, t)
	s.topicByID[t.ID] = len(s.topics) - 1
	s.nameStatus[nameKey(t.Name)] = t.ID
}

// resolveEndpoints maps suggestion endpoint names to topic IDs. Endpoints
// resolve against every known topic, accepted or merely proposed.
func (s *DiscoverySession) resolveEndpoints(c suggest.RelationshipSuggestion) (string, string, bool) {
	source, ok := s.resolveName(c.SourceName)
	if !ok {
		s.note(c.Describe(), "unknown source topic: "+c.SourceName)
		return "", "", false
	}
	target, ok := s.resolveName(c.TargetName)
	if !ok {
		s.note(c.Describe(), "unknown target topic: "+c.TargetName)
		return "", "", false
	}
	if source == target {
		s.note(c.Describe(), "self-referential after resolution")
		return "", "", false
	}
	return source, target, true
}

func (s *DiscoverySession) resolveName(name string) (string, bool) {
	if id, ok := s.accepted[nameKey(name)]; ok {
		return id, true
	}
	if id, ok := s.nameStatus[nameKey(name)]; ok {
		return id, true
	}
	return "", false
}

func (s *DiscoverySession) note(subject, reason string) {
	s.notes = append(s.notes, Note{Subject: subject, Reason: reason})
}

func (s *DiscoverySession) emit(eventType events.EventType, message string, data map[string]any) {
	s.sink.Emit(events.New(eventType, s.id, message, data))
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
