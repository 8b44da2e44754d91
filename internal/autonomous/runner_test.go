package autonomous

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wikiplan/wikiplan/internal/events"
	"github.com/wikiplan/wikiplan/internal/profile"
	"github.com/wikiplan/wikiplan/internal/search"
	"github.com/wikiplan/wikiplan/internal/types"
)

// scriptedGen routes prompts to canned responses by section marker, so one
// generator can serve every collaborator in a run.
type scriptedGen struct {
	scope         string
	initial       string
	expansion     string
	relationships string
	gaps          string
	curation      string
	curationCalls int
}

func (g *scriptedGen) Generate(_ context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "Domain Analysis Request"):
		return g.scope, nil
	case strings.Contains(prompt, "Seed Topic to Expand"):
		return g.expansion, nil
	case strings.Contains(prompt, "foundational topics"):
		return g.initial, nil
	case strings.Contains(prompt, "Relationship Analysis"):
		return g.relationships, nil
	case strings.Contains(prompt, "Coverage Gap Analysis"):
		return g.gaps, nil
	case strings.Contains(prompt, "curating proposed wiki topics"):
		g.curationCalls++
		return g.curation, nil
	}
	return "", errors.New("unexpected prompt")
}

// stubValidator scores named topics; anything unlisted gets a confidence
// low enough to auto-reject.
type stubValidator struct {
	known map[string]float64
}

func (v stubValidator) ValidateTopic(_ context.Context, name string) (float64, error) {
	if c, ok := v.known[name]; ok {
		return c, nil
	}
	return 0.05, nil
}

func (v stubValidator) Search(context.Context, string) ([]search.Result, error) {
	return nil, nil
}

func realTopics() stubValidator {
	return stubValidator{known: map[string]float64{
		"Channels":          0.95,
		"Select Statements": 0.95,
	}}
}

func defaultScript() *scriptedGen {
	return &scriptedGen{
		scope: `{
			"audience_description": "Engineers new to Go",
			"suggested_seeds": ["Goroutines"],
			"domain_description": "Concurrency in Go",
			"reasoning": "standard path"
		}`,
		initial: `{"suggestions": [
			{"name": "Channels", "description": "typed conduits", "relevance": 0.9},
			{"name": "Select Statements", "description": "multiplexing", "relevance": 0.9},
			{"name": "Astral Projection", "description": "off-domain", "relevance": 0.1}
		]}`,
		expansion:     `{"suggestions": []}`,
		relationships: `{"relationships": [
			{"source": "Goroutines", "target": "Channels", "type": "prerequisite_of", "confidence": 0.9, "rationale": "order"},
			{"source": "Channels", "target": "Select Statements", "type": "prerequisite_of", "confidence": 0.3}
		]}`,
		gaps: `{"gaps": [
			{"type": "missing_prerequisite", "description": "memory model missing", "severity": "critical", "suggested_topic": "Go Memory Model"},
			{"type": "incomplete_coverage", "description": "error handling is thin", "severity": "moderate"},
			{"type": "style", "description": "naming could be richer", "severity": "minor"}
		]}`,
		curation: `[]`,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	gen := defaultScript()
	rec := &events.Recorder{}
	runner := NewRunner(gen, realTopics(), rec, nil)

	u, err := runner.Run(context.Background(), Config{
		Domain:  "Go Concurrency",
		Profile: profile.Balanced,
	})
	if err != nil {
		t.Fatal(err)
	}

	// Landing page + inferred seed + 2 high-quality suggestions + gap topic.
	if got := u.AcceptedCount(); got != 5 {
		t.Fatalf("accepted = %d, want 5 (%v)", got, acceptedNames(u))
	}
	if !hasAccepted(u, "Channels") || !hasAccepted(u, "Select Statements") {
		t.Errorf("high-quality suggestions missing: %v", acceptedNames(u))
	}
	if hasAccepted(u, "Astral Projection") {
		t.Error("low-quality suggestion must be rejected")
	}
	if !hasAccepted(u, "Go Memory Model") {
		t.Errorf("critical gap must materialize as a topic: %v", acceptedNames(u))
	}

	if n := len(u.ConfirmedRelationships()); n != 1 {
		t.Errorf("confirmed relationships = %d, want 1", n)
	}
	if len(u.Backlog) != 1 {
		t.Errorf("moderate gap should land in the backlog, got %d entries", len(u.Backlog))
	}
	if len(u.GenerationOrder) != u.AcceptedCount() {
		t.Errorf("generation order covers %d of %d accepted", len(u.GenerationOrder), u.AcceptedCount())
	}
	if u.OrderingCycleDetected {
		t.Error("no cycle in this graph")
	}
	if lp := u.LandingPage(); lp == nil || lp.Name != "Go Concurrency" {
		t.Error("landing page missing")
	}

	if gen.curationCalls != 0 {
		t.Errorf("rule-decidable batch must not call curation AI, got %d calls", gen.curationCalls)
	}
	if len(rec.OfType(events.EventTypeUniverseComplete)) != 1 {
		t.Error("run must emit a completion event")
	}
	if len(rec.OfType(events.EventTypeRoundComplete)) == 0 {
		t.Error("rounds must emit progress events")
	}
}

func TestRun_MinimalProfileSkipsGapAnalysis(t *testing.T) {
	gen := defaultScript()
	runner := NewRunner(gen, realTopics(), nil, nil)

	u, err := runner.Run(context.Background(), Config{
		Domain:  "Go Concurrency",
		Profile: profile.Minimal,
	})
	if err != nil {
		t.Fatal(err)
	}
	if hasAccepted(u, "Go Memory Model") {
		t.Error("minimal profile must skip gap analysis")
	}
	if len(u.Backlog) != 0 {
		t.Errorf("no gaps should be recorded, got %d backlog entries", len(u.Backlog))
	}
}

func TestRun_DeclinedScope(t *testing.T) {
	gen := defaultScript()
	decline := func(string) bool { return false }
	runner := NewRunner(gen, realTopics(), nil, decline)

	_, err := runner.Run(context.Background(), Config{
		Domain:              "Go Concurrency",
		Profile:             profile.Balanced,
		RequireConfirmation: true,
	})
	if !errors.Is(err, ErrDeclined) {
		t.Errorf("expected ErrDeclined, got %v", err)
	}
}

func TestRun_ConfirmationGateReceivesSummary(t *testing.T) {
	gen := defaultScript()
	var summary string
	accept := func(s string) bool {
		summary = s
		return true
	}
	runner := NewRunner(gen, realTopics(), nil, accept)

	if _, err := runner.Run(context.Background(), Config{
		Domain:              "Go Concurrency",
		Profile:             profile.Balanced,
		RequireConfirmation: true,
	}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(summary, "Goroutines") {
		t.Errorf("summary should list the inferred seeds: %q", summary)
	}
}

func TestRun_BlankDomain(t *testing.T) {
	runner := NewRunner(defaultScript(), stubValidator{}, nil, nil)
	if _, err := runner.Run(context.Background(), Config{}); err == nil {
		t.Error("blank domain must fail before any AI call")
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{
		Domain:              "  Kubernetes  ",
		Seeds:               []string{"Pods", "  ", "Services"},
		ConfidenceThreshold: 1.7,
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Domain != "Kubernetes" {
		t.Errorf("domain not trimmed: %q", cfg.Domain)
	}
	if len(cfg.Seeds) != 2 {
		t.Errorf("blank seeds must be dropped: %v", cfg.Seeds)
	}
	if cfg.ConfidenceThreshold != 0.75 {
		t.Errorf("threshold should clamp to default, got %v", cfg.ConfidenceThreshold)
	}
	if cfg.Profile.Name != "balanced" {
		t.Errorf("profile should default to balanced, got %q", cfg.Profile.Name)
	}

	if _, err := NewConfig(Config{Domain: "   "}); err == nil {
		t.Error("blank domain must be rejected")
	}
}

func hasAccepted(u *types.TopicUniverse, name string) bool {
	for _, t := range u.Topics {
		if t.Status == types.StatusAccepted && t.Name == name {
			return true
		}
	}
	return false
}

func acceptedNames(u *types.TopicUniverse) []string {
	var out []string
	for _, t := range u.Topics {
		if t.Status == types.StatusAccepted {
			out = append(out, t.Name)
		}
	}
	return out
}
