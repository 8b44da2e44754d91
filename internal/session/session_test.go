package session

import (
	"testing"

	"github.com/wikiplan/wikiplan/internal/events"
	"github.com/wikiplan/wikiplan/internal/suggest"
	"github.com/wikiplan/wikiplan/internal/types"
)

func newSession(t *testing.T) *DiscoverySession {
	t.Helper()
	s, err := New("Go Concurrency", "patterns for concurrent Go")
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNew_BlankDomain(t *testing.T) {
	if _, err := New("  ", ""); err == nil {
		t.Fatal("expected error for blank domain")
	}
}

func TestAdvance_StrictlyForward(t *testing.T) {
	s := newSession(t)
	want := []Phase{
		PhaseScopeSetup, PhaseTopicExpansion, PhaseRelationshipMapping,
		PhaseGapAnalysis, PhaseDepthCalibration, PhasePrioritization,
		PhaseReview, PhaseComplete,
	}
	for _, phase := range want {
		if got := s.Advance(); got != phase {
			t.Fatalf("expected %s, got %s", phase, got)
		}
	}
	// Advancing a completed session stays complete.
	if got := s.Advance(); got != PhaseComplete {
		t.Errorf("expected complete, got %s", got)
	}
}

func TestAdvance_SkipsGapAnalysis(t *testing.T) {
	s := newSession(t)
	s.SetSkipGapAnalysis(true)
	s.Advance() // scope_setup
	s.Advance() // topic_expansion
	s.Advance() // relationship_mapping
	if got := s.Advance(); got != PhaseDepthCalibration {
		t.Errorf("expected gap analysis skipped, got %s", got)
	}
}

func TestAcceptTopicSuggestion_CaseInsensitiveUniqueness(t *testing.T) {
	s := newSession(t)
	if s.AcceptTopicSuggestion(suggest.Simple("Goroutines", "a")) == nil {
		t.Fatal("first accept should succeed")
	}
	before := s.AcceptedCount()

	// Re-submitting an accepted name must not change graph size.
	if s.AcceptTopicSuggestion(suggest.Simple("GOROUTINES", "b")) != nil {
		t.Error("duplicate accept should be a no-op")
	}
	if s.AcceptedCount() != before {
		t.Errorf("accepted count changed: %d -> %d", before, s.AcceptedCount())
	}
	if len(s.Notes()) == 0 {
		t.Error("no-op must record a reason")
	}
}

func TestRejectedNamesBlockReacceptance(t *testing.T) {
	s := newSession(t)
	s.RejectTopicSuggestion(suggest.Simple("Mutexes", "low quality"))
	if s.AcceptTopicSuggestion(suggest.Simple("mutexes", "resurfaced")) != nil {
		t.Error("previously rejected name must not be re-accepted")
	}
	if s.AcceptedCount() != 0 {
		t.Errorf("expected 0 accepted, got %d", s.AcceptedCount())
	}
}

func TestDeferAddsBacklogEntry(t *testing.T) {
	s := newSession(t)
	s.DeferTopicSuggestion(suggest.Simple("Select Statements", "maybe later"))
	u := s.BuildUniverse()
	if len(u.Backlog) != 1 {
		t.Fatalf("expected 1 backlog entry, got %d", len(u.Backlog))
	}
	if u.Backlog[0].Name != "Select Statements" {
		t.Errorf("unexpected backlog entry: %+v", u.Backlog[0])
	}
	if !s.IsProcessed("select statements") {
		t.Error("deferred name should count as processed")
	}
}

func TestAcceptAfterDefer_ClearsBacklog(t *testing.T) {
	s := newSession(t)
	s.DeferTopicSuggestion(suggest.Simple("Channels", "later"))
	s.AddGaps([]string{"error handling is thin"})

	if s.AcceptTopicSuggestion(suggest.Simple("channels", "reconsidered")) == nil {
		t.Fatal("deferred name should be acceptable")
	}
	u := s.BuildUniverse()
	for _, entry := range u.Backlog {
		if entry.Name == "Channels" {
			t.Error("accepted topic must not remain in the backlog")
		}
	}
	// Unnamed gap descriptions stay.
	if len(u.Backlog) != 1 {
		t.Fatalf("expected 1 backlog entry, got %d", len(u.Backlog))
	}
	if s.AcceptedCount() != 1 {
		t.Errorf("accepted = %d, want 1", s.AcceptedCount())
	}
}

func TestModifyAndAcceptTopic(t *testing.T) {
	s := newSession(t)
	topic := s.ModifyAndAcceptTopic(suggest.Simple("Chans", "short name"), map[string]string{
		"name":       "Channels",
		"complexity": "advanced",
	})
	if topic == nil {
		t.Fatal("modify-and-accept should succeed")
	}
	if topic.Name != "Channels" {
		t.Errorf("override not applied: %s", topic.Name)
	}
	if topic.Complexity != types.ComplexityAdvanced {
		t.Errorf("complexity override not applied: %s", topic.Complexity)
	}
	if topic.EstimatedWordCount != types.ComplexityAdvanced.MinWords() {
		t.Errorf("word count should follow complexity: %d", topic.EstimatedWordCount)
	}
}

func TestConfirmRelationship(t *testing.T) {
	s := newSession(t)
	s.AddSeedTopic("Goroutines", "")
	s.AddSeedTopic("Channels", "")

	rel, _ := suggest.NewRelationshipSuggestion("Goroutines", "Channels", types.RelPrerequisiteOf, 0.9, "")
	edge := s.ConfirmRelationship(rel)
	if edge == nil {
		t.Fatal("confirm should succeed for known endpoints")
	}
	if edge.Status != types.RelStatusConfirmed {
		t.Errorf("unexpected status %s", edge.Status)
	}

	// Duplicate (source, target, type) is a no-op.
	if s.ConfirmRelationship(rel) != nil {
		t.Error("duplicate confirm should be dropped")
	}
	if n := len(s.ConfirmedRelationships()); n != 1 {
		t.Errorf("expected 1 confirmed edge, got %d", n)
	}

	// Same endpoints, different type is a new edge.
	other, _ := suggest.NewRelationshipSuggestion("Goroutines", "Channels", types.RelPairsWith, 0.9, "")
	if s.ConfirmRelationship(other) == nil {
		t.Error("different type should confirm")
	}
}

func TestRetypeAndConfirmRelationship(t *testing.T) {
	s := newSession(t)
	s.AddSeedTopic("Goroutines", "")
	s.AddSeedTopic("Channels", "")

	rel, _ := suggest.NewRelationshipSuggestion("Goroutines", "Channels", types.RelRelatedTo, 0.6, "")
	edge := s.RetypeAndConfirmRelationship(rel, types.RelPrerequisiteOf)
	if edge == nil {
		t.Fatal("retype-and-confirm should succeed")
	}
	if edge.Type != types.RelPrerequisiteOf || edge.Status != types.RelStatusConfirmed {
		t.Errorf("corrected type not applied: %+v", edge)
	}

	// Uniqueness applies to the corrected triple.
	again, _ := suggest.NewRelationshipSuggestion("Goroutines", "Channels", types.RelPairsWith, 0.6, "")
	if s.RetypeAndConfirmRelationship(again, types.RelPrerequisiteOf) != nil {
		t.Error("duplicate corrected triple should be dropped")
	}
	if n := len(s.ConfirmedRelationships()); n != 1 {
		t.Errorf("expected 1 confirmed edge, got %d", n)
	}

	// Invalid type is a recorded no-op.
	if s.RetypeAndConfirmRelationship(rel, "friend_of") != nil {
		t.Error("invalid type must not confirm")
	}
	if len(s.Notes()) == 0 {
		t.Error("invalid type must record a reason")
	}
}

func TestCalibrateTopicDepth(t *testing.T) {
	s := newSession(t)
	topic := s.AddSeedTopic("Goroutines", "")

	s.CalibrateTopicDepth(topic.ID, types.ComplexityAdvanced)
	u := s.BuildUniverse()
	got := u.TopicByID(topic.ID)
	if got.Complexity != types.ComplexityAdvanced {
		t.Errorf("complexity not updated: %s", got.Complexity)
	}
	if got.EstimatedWordCount != types.ComplexityAdvanced.MinWords() {
		t.Errorf("word estimate should follow the level: %d", got.EstimatedWordCount)
	}

	// Unknown id and invalid level are recorded no-ops.
	s.CalibrateTopicDepth("no-such-id", types.ComplexityBeginner)
	s.CalibrateTopicDepth(topic.ID, "expert")
	if len(s.Notes()) != 2 {
		t.Errorf("expected 2 recorded reasons, got %d", len(s.Notes()))
	}
	if u := s.BuildUniverse(); u.TopicByID(topic.ID).Complexity != types.ComplexityAdvanced {
		t.Error("invalid level must not change the topic")
	}
}

func TestConfirmRelationship_DanglingEndpoint(t *testing.T) {
	s := newSession(t)
	s.AddSeedTopic("Goroutines", "")

	rel, _ := suggest.NewRelationshipSuggestion("Goroutines", "Quantum Chromodynamics", types.RelRelatedTo, 0.9, "")
	if s.ConfirmRelationship(rel) != nil {
		t.Fatal("dangling endpoint must be dropped")
	}
	if len(s.Notes()) == 0 {
		t.Error("drop must record a reason")
	}
}

func TestAddressGapWithTopic(t *testing.T) {
	s := newSession(t)
	topic := s.AddressGapWithTopic("missing_prerequisite", "readers need memory model basics", "Go Memory Model")
	if topic == nil {
		t.Fatal("gap topic should be created")
	}
	if topic.Status != types.StatusAccepted {
		t.Errorf("expected accepted, got %s", topic.Status)
	}
	if topic.Priority != types.PriorityShouldHave {
		t.Errorf("expected should_have, got %s", topic.Priority)
	}
	if topic.AddedReason != "gap analysis: missing_prerequisite" {
		t.Errorf("provenance must cite the gap type, got %q", topic.AddedReason)
	}
}

func TestIgnoreGap_NoGraphChange(t *testing.T) {
	s := newSession(t)
	before := s.BuildUniverse()
	s.IgnoreGap("minor style inconsistency")
	after := s.BuildUniverse()
	if len(after.Topics) != len(before.Topics) || len(after.Backlog) != len(before.Backlog) {
		t.Error("ignoring a gap must not change the graph")
	}
}

func TestUpdateTopicPriority(t *testing.T) {
	s := newSession(t)
	topic := s.AddSeedTopic("Goroutines", "")
	s.UpdateTopicPriority(topic.ID, types.PriorityNiceToHave)
	u := s.BuildUniverse()
	if got := u.TopicByID(topic.ID).Priority; got != types.PriorityNiceToHave {
		t.Errorf("priority not updated: %s", got)
	}

	// Unknown id and invalid priority are recorded no-ops.
	s.UpdateTopicPriority("no-such-id", types.PriorityMustHave)
	s.UpdateTopicPriority(topic.ID, "urgent")
	if len(s.Notes()) != 2 {
		t.Errorf("expected 2 recorded reasons, got %d", len(s.Notes()))
	}
}

func TestBuildUniverse_PureSnapshot(t *testing.T) {
	s := newSession(t)
	s.AddSeedTopic("Goroutines", "")

	u1 := s.BuildUniverse()
	u1.Topics[0].Name = "tampered"

	u2 := s.BuildUniverse()
	if u2.Topics[0].Name != "Goroutines" {
		t.Error("snapshot must not alias session state")
	}
	if u1.ID != u2.ID {
		t.Error("universe id must be stable across builds")
	}
}

func TestSessionEmitsEvents(t *testing.T) {
	s := newSession(t)
	rec := &events.Recorder{}
	s.SetSink(rec)

	s.AcceptTopicSuggestion(suggest.Simple("Goroutines", ""))
	s.RejectTopicSuggestion(suggest.Simple("Made Up Thing", ""))
	s.Advance()

	if n := len(rec.OfType(events.EventTypeTopicAccepted)); n != 1 {
		t.Errorf("expected 1 accepted event, got %d", n)
	}
	if n := len(rec.OfType(events.EventTypeTopicRejected)); n != 1 {
		t.Errorf("expected 1 rejected event, got %d", n)
	}
	if n := len(rec.OfType(events.EventTypePhaseStarted)); n != 1 {
		t.Errorf("expected 1 phase event, got %d", n)
	}
}

func TestAddLandingPage_OnlyOne(t *testing.T) {
	s := newSession(t)
	if s.AddLandingPage("Go Concurrency", "overview") == nil {
		t.Fatal("first landing page should succeed")
	}
	if s.AddLandingPage("Another Home", "nope") != nil {
		t.Error("second landing page must be a no-op")
	}
	u := s.BuildUniverse()
	if u.LandingPage() == nil || u.LandingPage().Name != "Go Concurrency" {
		t.Error("landing page lookup failed")
	}
}
