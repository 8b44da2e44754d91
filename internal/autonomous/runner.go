// Package autonomous drives a full discovery run without human input:
// scope inference, iterative expansion with autonomous curation,
// relationship mapping, gap analysis, and prioritization. The only
// optional pause is a confirmation gate after scope inference.
package autonomous

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/curation"
	"github.com/wikiplan/wikiplan/internal/discovery"
	"github.com/wikiplan/wikiplan/internal/events"
	"github.com/wikiplan/wikiplan/internal/prioritize"
	"github.com/wikiplan/wikiplan/internal/profile"
	"github.com/wikiplan/wikiplan/internal/search"
	"github.com/wikiplan/wikiplan/internal/session"
	"github.com/wikiplan/wikiplan/internal/suggest"
	"github.com/wikiplan/wikiplan/internal/types"
)

// ErrDeclined is returned when the user declines the scope confirmation
// gate. It is a clean abort, not a failure.
var ErrDeclined = errors.New("scope declined by user")

// ConfirmFunc asks the user to approve the inferred scope. A nil function
// auto-approves.
type ConfirmFunc func(summary string) bool

// Runner orchestrates one autonomous discovery run.
type Runner struct {
	gen           ai.Generator
	scope         *discovery.ScopeInferrer
	expander      *discovery.TopicExpander
	relationships *discovery.RelationshipSuggester
	gaps          *discovery.GapAnalyzer
	sink          events.Sink
	confirm       ConfirmFunc
}

// NewRunner wires the discovery collaborators around one generator and
// one validator.
func NewRunner(gen ai.Generator, validator search.Validator, sink events.Sink, confirm ConfirmFunc) *Runner {
	if sink == nil {
		sink = events.Discard
	}
	return &Runner{
		gen:           gen,
		scope:         discovery.NewScopeInferrer(gen),
		expander:      discovery.NewTopicExpander(gen, validator),
		relationships: discovery.NewRelationshipSuggester(gen),
		gaps:          discovery.NewGapAnalyzer(gen),
		sink:          sink,
		confirm:       confirm,
	}
}

// Run executes the full workflow and returns the finalized universe. The
// caller persists it. AI and validation failures inside a round never
// abort the run; only configuration errors and a declined confirmation
// gate do.
func (r *Runner) Run(ctx context.Context, cfg Config) (*types.TopicUniverse, error) {
	cfg, err := NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(cfg.Domain, cfg.Description)
	if err != nil {
		return nil, err
	}
	sess.SetSink(r.sink)
	sess.SetSkipGapAnalysis(cfg.Profile.SkipGapAnalysis)
	curator := curation.NewCurator(r.gen, cfg.ConfidenceThreshold)

	// Phase: seed input.
	sess.AddLandingPage(cfg.Domain, cfg.Description)
	for _, seed := range cfg.Seeds {
		sess.AddSeedTopic(seed, "")
	}

	// Phase: scope setup.
	sess.Advance()
	inferred := r.scope.InferScope(ctx, cfg.Domain, cfg.Description, cfg.Seeds)
	sess.SetScope(inferred.Scope)
	for _, seed := range inferred.Seeds {
		sess.AddSeedTopic(seed, "")
	}
	if cfg.RequireConfirmation && r.confirm != nil {
		if !r.confirm(scopeSummary(inferred)) {
			return nil, ErrDeclined
		}
	}

	// Phase: topic expansion.
	sess.Advance()
	criteria := profile.CriteriaFor(cfg.Profile)
	r.expand(ctx, sess, curator, cfg, criteria)

	// Phase: relationship mapping.
	sess.Advance()
	r.mapRelationships(ctx, sess, cfg.Profile)

	// Phase: gap analysis (skipped by the profile where configured).
	sess.Advance()
	if sess.Phase() == session.PhaseGapAnalysis {
		r.analyzeGaps(ctx, sess, criteria)
		sess.Advance()
	}

	// Autonomous mode collapses depth calibration into prioritization:
	// complexity was already capped per suggestion during expansion.
	sess.Advance()
	result := prioritize.Run(sess.AcceptedTopics(), sess.ConfirmedRelationships(), sess.Seeds())
	for id, priority := range result.Priorities {
		sess.UpdateTopicPriority(id, priority)
	}
	sess.SetGenerationOrder(result.GenerationOrder, result.CycleDetected)

	// Phases: review, complete.
	sess.Advance()
	sess.Advance()

	universe := sess.BuildUniverse()
	r.sink.Emit(events.New(events.EventTypeUniverseComplete, sess.ID(),
		fmt.Sprintf("%d topics, %d relationships, ~%d words",
			universe.AcceptedCount(), len(universe.ConfirmedRelationships()), universe.EstimatedWordCount()),
		map[string]any{
			"accepted":       universe.AcceptedCount(),
			"relationships":  len(universe.ConfirmedRelationships()),
			"ordering_cycle": universe.OrderingCycleDetected,
		}))
	return universe, nil
}

// expand runs expansion rounds until a stopping rule fires. Round and
// count limits stop immediately; convergence-based exits additionally
// require the minimum topic count.
func (r *Runner) expand(ctx context.Context, sess *session.DiscoverySession, curator *curation.Curator, cfg Config, criteria profile.StoppingCriteria) {
	expanded := make(map[string]bool)
	consecutiveLowQuality := 0

	for round := 1; ; round++ {
		if criteria.ShouldStopByRounds(round - 1) {
			r.converged(sess, "round limit reached")
			return
		}
		if criteria.ShouldStopByCount(sess.AcceptedCount()) {
			r.converged(sess, "topic capacity reached")
			return
		}

		suggestions := r.gatherRound(ctx, sess, cfg, round, expanded)
		highQuality := 0
		for _, s := range suggestions {
			if s.MeetsAutonomousThreshold(curator.Threshold()) {
				highQuality++
			}
		}

		sctx := curation.NewContext(cfg.Domain, round, sess.AcceptedCount(), criteria.MaxTopics, sess.ProcessedNames())
		decisions := curator.DecideTopics(ctx, suggestions, sctx)
		accepted := 0
		for i, d := range decisions {
			switch d.Action {
			case curation.ActionAccept:
				if sess.AcceptTopicSuggestion(suggestions[i]) != nil {
					accepted++
				}
			case curation.ActionReject:
				sess.RejectTopicSuggestion(suggestions[i])
			default:
				sess.DeferTopicSuggestion(suggestions[i])
			}
		}

		r.sink.Emit(events.New(events.EventTypeRoundComplete, sess.ID(),
			fmt.Sprintf("round %d: %d suggested, %d accepted", round, len(suggestions), accepted),
			map[string]any{
				"round":     round,
				"suggested": len(suggestions),
				"accepted":  accepted,
				"total":     sess.AcceptedCount(),
			}))

		if criteria.HasConverged(highQuality, len(suggestions)) {
			consecutiveLowQuality++
		} else {
			consecutiveLowQuality = 0
		}
		if criteria.HasMinimumTopics(sess.AcceptedCount()) {
			if len(suggestions) == 0 {
				r.converged(sess, "no further suggestions")
				return
			}
			if criteria.ShouldStopByLowQuality(consecutiveLowQuality) {
				r.converged(sess, "diminishing suggestion quality")
				return
			}
		}
	}
}

// gatherRound collects suggestions for one round: the first round asks
// for initial topics from the domain, later rounds expand accepted
// topics that have not been expanded yet. Calls are strictly sequential.
func (r *Runner) gatherRound(ctx context.Context, sess *session.DiscoverySession, cfg Config, round int, expanded map[string]bool) []suggest.TopicSuggestion {
	if round == 1 {
		suggestions, err := r.expander.InitialTopics(ctx, cfg.Domain, cfg.Description, sess.Scope(), cfg.Profile)
		if err != nil {
			slog.Warn("initial topic generation failed", "domain", cfg.Domain, "error", err)
			return nil
		}
		return suggestions
	}

	existing := make(map[string]bool)
	for _, name := range sess.AcceptedNames() {
		existing[name] = true
	}

	var out []suggest.TopicSuggestion
	picked := 0
	for _, t := range sess.AcceptedTopics() {
		if picked >= cfg.Profile.TopicsPerRound {
			break
		}
		if expanded[t.ID] || t.IsLandingPage {
			continue
		}
		expanded[t.ID] = true
		picked++
		suggestions, err := r.expander.ExpandTopic(ctx, t.Name, cfg.Domain, existing, sess.Scope(), cfg.Profile)
		if err != nil {
			slog.Warn("topic expansion failed", "topic", t.Name, "error", err)
			continue
		}
		out = append(out, suggestions...)
	}
	return out
}

func (r *Runner) mapRelationships(ctx context.Context, sess *session.DiscoverySession, prof profile.CostProfile) {
	accepted := sess.AcceptedTopics()
	topics := make([]types.Topic, len(accepted))
	for i, t := range accepted {
		topics[i] = *t
	}
	suggestions, err := r.relationships.AnalyzeRelationships(ctx, topics, prof.RelationshipDepth)
	if err != nil {
		slog.Warn("relationship analysis failed", "error", err)
		return
	}
	for _, rel := range suggestions {
		switch curation.DecideRelationship(rel).Action {
		case curation.ActionConfirm:
			sess.ConfirmRelationship(rel)
		default:
			sess.RejectRelationship(rel)
		}
	}
}

// analyzeGaps applies the gap policy: critical gaps with a suggested name
// become accepted topics, moderate gaps land in the backlog, minor gaps
// are discarded.
func (r *Runner) analyzeGaps(ctx context.Context, sess *session.DiscoverySession, criteria profile.StoppingCriteria) {
	accepted := sess.AcceptedTopics()
	topics := make([]types.Topic, len(accepted))
	for i, t := range accepted {
		topics[i] = *t
	}
	gaps, err := r.gaps.AnalyzeGaps(ctx, topics, sess.ConfirmedRelationships(), sess.Scope())
	if err != nil {
		slog.Warn("gap analysis failed", "error", err)
		return
	}
	if len(gaps) == 0 {
		return
	}
	r.sink.Emit(events.New(events.EventTypeGapsFound, sess.ID(),
		fmt.Sprintf("%d coverage gaps identified", len(gaps)),
		map[string]any{"count": len(gaps)}))

	for _, gap := range gaps {
		switch gap.Severity {
		case discovery.GapCritical:
			if gap.SuggestedTopicName != "" && !criteria.ShouldStopByCount(sess.AcceptedCount()) {
				sess.AddressGapWithTopic(gap.Type, gap.Description, gap.SuggestedTopicName)
			} else {
				sess.AddGaps([]string{gap.Description})
			}
		case discovery.GapModerate:
			sess.AddGaps([]string{gap.Description})
		default:
			sess.IgnoreGap(gap.Description)
		}
	}
}

func (r *Runner) converged(sess *session.DiscoverySession, reason string) {
	r.sink.Emit(events.New(events.EventTypeConvergenceReached, sess.ID(), reason, nil))
}

func scopeSummary(inferred discovery.InferredScope) string {
	var b strings.Builder
	b.WriteString("Inferred scope:\n")
	b.WriteString(inferred.Scope.PromptFormat())
	fmt.Fprintf(&b, "Seed topics: %s\n", strings.Join(inferred.Seeds, ", "))
	if inferred.Reasoning != "" {
		fmt.Fprintf(&b, "Reasoning: %s\n", inferred.Reasoning)
	}
	return b.String()
}
