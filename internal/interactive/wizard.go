// Package interactive implements the guided discovery mode: the same
// workflow the autonomous runner drives, but every curation decision is
// put to the user. Deterministic rules still run first and are shown as
// recommendations.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

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

// Config holds the caller inputs for an interactive run.
type Config struct {
	Domain              string
	Description         string
	Seeds               []string
	Profile             profile.CostProfile
	ConfidenceThreshold float64
}

// Wizard walks the user through a discovery session phase by phase.
type Wizard struct {
	gen           ai.Generator
	scope         *discovery.ScopeInferrer
	expander      *discovery.TopicExpander
	relationships *discovery.RelationshipSuggester
	gaps          *discovery.GapAnalyzer
	sink          events.Sink

	bold   func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// New wires the wizard's collaborators.
func New(gen ai.Generator, validator search.Validator, sink events.Sink) *Wizard {
	if sink == nil {
		sink = events.Discard
	}
	return &Wizard{
		gen:           gen,
		scope:         discovery.NewScopeInferrer(gen),
		expander:      discovery.NewTopicExpander(gen, validator),
		relationships: discovery.NewRelationshipSuggester(gen),
		gaps:          discovery.NewGapAnalyzer(gen),
		sink:          sink,
		bold:          color.New(color.Bold).SprintFunc(),
		green:         color.New(color.FgGreen).SprintFunc(),
		yellow:        color.New(color.FgYellow).SprintFunc(),
		red:           color.New(color.FgRed).SprintFunc(),
	}
}

// Run drives the interactive workflow. An early quit is not an error:
// the session finalizes with whatever was accepted so far.
func (w *Wizard) Run(ctx context.Context, cfg Config) (*types.TopicUniverse, error) {
	if cfg.Profile.Name == "" {
		cfg.Profile = profile.Balanced
	}
	sess, err := session.New(cfg.Domain, cfg.Description)
	if err != nil {
		return nil, err
	}
	sess.SetSink(w.sink)
	sess.SetSkipGapAnalysis(cfg.Profile.SkipGapAnalysis)
	curator := curation.NewCurator(w.gen, cfg.ConfidenceThreshold)

	p, err := newPrompter()
	if err != nil {
		return nil, err
	}
	defer p.Close()

	fmt.Printf("\n%s\n\n", w.bold("Planning topic universe for: "+cfg.Domain))

	err = w.runPhases(ctx, p, sess, curator, cfg)
	if err != nil && !errors.Is(err, errQuit) {
		return nil, err
	}

	result := prioritize.Run(sess.AcceptedTopics(), sess.ConfirmedRelationships(), sess.Seeds())
	for id, priority := range result.Priorities {
		sess.UpdateTopicPriority(id, priority)
	}
	sess.SetGenerationOrder(result.GenerationOrder, result.CycleDetected)
	for !sess.Phase().IsTerminal() {
		sess.Advance()
	}

	universe := sess.BuildUniverse()
	w.printSummary(universe)
	return universe, nil
}

func (w *Wizard) runPhases(ctx context.Context, p *prompter, sess *session.DiscoverySession, curator *curation.Curator, cfg Config) error {
	// Seed input.
	sess.AddLandingPage(cfg.Domain, cfg.Description)
	for _, seed := range cfg.Seeds {
		sess.AddSeedTopic(seed, "")
	}
	fmt.Println("Add seed topics to start from (empty line to finish):")
	extra, err := p.list("  seed> ")
	if err != nil {
		return err
	}
	for _, seed := range extra {
		sess.AddSeedTopic(seed, "")
	}

	// Scope setup.
	sess.Advance()
	if err := w.setupScope(ctx, p, sess, cfg); err != nil {
		return err
	}

	// Topic expansion.
	sess.Advance()
	if err := w.expand(ctx, p, sess, curator, cfg); err != nil {
		return err
	}

	// Relationship mapping.
	sess.Advance()
	if err := w.mapRelationships(ctx, p, sess, cfg.Profile); err != nil {
		return err
	}

	// Gap analysis.
	sess.Advance()
	if sess.Phase() == session.PhaseGapAnalysis {
		if err := w.reviewGaps(ctx, p, sess); err != nil {
			return err
		}
		sess.Advance()
	}

	// Depth calibration.
	if err := w.calibrateDepth(p, sess); err != nil {
		return err
	}
	return nil
}

func (w *Wizard) setupScope(ctx context.Context, p *prompter, sess *session.DiscoverySession, cfg Config) error {
	inferred := w.scope.InferScope(ctx, cfg.Domain, cfg.Description, sess.Seeds())
	fmt.Printf("\n%s\n%s\n", w.bold("Inferred scope:"), indent(inferred.Scope.PromptFormat()))
	ok, err := p.yesNo("Use this scope?", true)
	if err != nil {
		return err
	}
	if ok {
		sess.SetScope(inferred.Scope)
		for _, seed := range inferred.Seeds {
			sess.AddSeedTopic(seed, "")
		}
		return nil
	}

	// Scope is immutable once built: collect all answers, then replace it
	// wholesale.
	assumed, err := p.ask("Assumed knowledge (comma-separated): ")
	if err != nil {
		return err
	}
	excluded, err := p.ask("Out of scope (comma-separated): ")
	if err != nil {
		return err
	}
	focus, err := p.ask("Focus areas (comma-separated): ")
	if err != nil {
		return err
	}
	audience, err := p.ask("Target audience: ")
	if err != nil {
		return err
	}
	sess.SetScope(types.NewScopeConfiguration(types.ScopeConfiguration{
		AssumedKnowledge:    splitList(assumed),
		OutOfScope:          splitList(excluded),
		FocusAreas:          splitList(focus),
		AudienceDescription: audience,
		DomainDescription:   cfg.Description,
	}))
	return nil
}

// expand runs expansion rounds, asking the user about every suggestion
// the deterministic rules did not already settle.
func (w *Wizard) expand(ctx context.Context, p *prompter, sess *session.DiscoverySession, curator *curation.Curator, cfg Config) error {
	criteria := profile.CriteriaFor(cfg.Profile)
	expanded := make(map[string]bool)

	for round := 1; !criteria.ShouldStopByRounds(round - 1); round++ {
		if criteria.ShouldStopByCount(sess.AcceptedCount()) {
			fmt.Println(w.yellow("Topic capacity reached."))
			return nil
		}
		suggestions := w.gatherRound(ctx, sess, cfg, round, expanded)
		if len(suggestions) == 0 {
			fmt.Println(w.yellow("No further suggestions."))
			return nil
		}

		fmt.Printf("\n%s\n", w.bold(fmt.Sprintf("Round %d: %d suggestions", round, len(suggestions))))
		skipRest := false
		for _, s := range suggestions {
			if skipRest {
				sess.DeferTopicSuggestion(s)
				continue
			}
			sctx := curation.NewContext(cfg.Domain, round, sess.AcceptedCount(), criteria.MaxTopics, sess.ProcessedNames())
			quit, skip, err := w.curateOne(ctx, p, sess, curator, s, sctx)
			if err != nil {
				return err
			}
			if quit {
				return errQuit
			}
			skipRest = skip
		}

		more, err := p.yesNo("Run another expansion round?", round < cfg.Profile.MaxExpansionRounds)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// curateOne shows a suggestion with the rule engine's recommendation and
// dispatches the user's command.
func (w *Wizard) curateOne(ctx context.Context, p *prompter, sess *session.DiscoverySession, curator *curation.Curator, s suggest.TopicSuggestion, sctx curation.Context) (quit, skipRest bool, err error) {
	fmt.Printf("\n  %s\n  %s\n", w.bold(s.Summary()), s.Description)
	fmt.Printf("  score %.2f, %s\n", s.QualityScore(), s.ConfidenceIndicator())
	if d, matched := curation.RuleDecision(s, sctx, curator.Threshold()); matched {
		fmt.Printf("  recommendation: %s (%s)\n", string(d.Action), d.Reasoning)
	}

	for {
		answer, err := p.ask("  [a]ccept / [r]eject / [d]efer / [m]odify / [s]kip rest / [q]uit: ")
		if err != nil {
			return false, false, err
		}
		switch strings.ToLower(answer) {
		case "a", "accept", "":
			if t := sess.AcceptTopicSuggestion(s); t != nil {
				fmt.Printf("  %s %s\n", w.green("accepted"), t.Name)
			}
			return false, false, nil
		case "r", "reject":
			sess.RejectTopicSuggestion(s)
			fmt.Printf("  %s %s\n", w.red("rejected"), s.Name)
			return false, false, nil
		case "d", "defer":
			sess.DeferTopicSuggestion(s)
			fmt.Printf("  %s %s\n", w.yellow("deferred"), s.Name)
			return false, false, nil
		case "m", "modify":
			overrides, err := w.collectOverrides(p)
			if err != nil {
				return false, false, err
			}
			if t := sess.ModifyAndAcceptTopic(s, overrides); t != nil {
				fmt.Printf("  %s %s\n", w.green("accepted"), t.Name)
			}
			return false, false, nil
		case "s", "skip":
			sess.DeferTopicSuggestion(s)
			return false, true, nil
		case "q", "quit":
			return true, false, nil
		}
	}
}

func (w *Wizard) collectOverrides(p *prompter) (map[string]string, error) {
	overrides := make(map[string]string)
	for _, field := range []string{"name", "description", "category", "content_type", "complexity"} {
		value, err := p.ask(fmt.Sprintf("  %s (empty to keep): ", field))
		if err != nil {
			return nil, err
		}
		if value != "" {
			overrides[field] = value
		}
	}
	return overrides, nil
}

func (w *Wizard) mapRelationships(ctx context.Context, p *prompter, sess *session.DiscoverySession, prof profile.CostProfile) error {
	accepted := sess.AcceptedTopics()
	topics := make([]types.Topic, len(accepted))
	for i, t := range accepted {
		topics[i] = *t
	}
	suggestions, err := w.relationships.AnalyzeRelationships(ctx, topics, prof.RelationshipDepth)
	if err != nil {
		fmt.Println(w.yellow("Relationship analysis unavailable, continuing without."))
		return nil
	}
	if len(suggestions) == 0 {
		return nil
	}

	fmt.Printf("\n%s\n", w.bold(fmt.Sprintf("%d suggested relationships", len(suggestions))))
	for _, rel := range suggestions {
		d := curation.DecideRelationship(rel)
		if d.Action == curation.ActionReject {
			sess.RejectRelationship(rel)
			continue
		}
		if rel.IsHighConfidence() {
			sess.ConfirmRelationship(rel)
			fmt.Printf("  %s %s\n", w.green("confirmed"), rel.Describe())
			continue
		}
		if err := w.curateRelationship(p, sess, rel); err != nil {
			return err
		}
	}
	return nil
}

// curateRelationship puts a borderline edge to the user: confirm as
// suggested, reject, or confirm under a corrected type.
func (w *Wizard) curateRelationship(p *prompter, sess *session.DiscoverySession, rel suggest.RelationshipSuggestion) error {
	fmt.Printf("  %s (confidence %.2f)\n", rel.Describe(), rel.Confidence)
	for {
		answer, err := p.ask("  [c]onfirm / [r]eject / [t]ype change: ")
		if err != nil {
			return err
		}
		var action curation.Action
		switch strings.ToLower(answer) {
		case "c", "confirm", "":
			action = curation.ActionConfirm
		case "r", "reject":
			action = curation.ActionReject
		case "t", "type":
			action = curation.ActionTypeChange
		default:
			continue
		}

		switch action {
		case curation.ActionConfirm:
			sess.ConfirmRelationship(rel)
		case curation.ActionTypeChange:
			raw, err := p.ask("  new type (prerequisite_of, part_of, related_to, example_of, contrasts_with, implements, supersedes, pairs_with): ")
			if err != nil {
				return err
			}
			newType := types.RelationshipType(strings.ToLower(strings.TrimSpace(raw)))
			if !newType.IsValid() {
				fmt.Println(w.yellow("  unknown relationship type: " + raw))
				continue
			}
			if edge := sess.RetypeAndConfirmRelationship(rel, newType); edge != nil {
				fmt.Printf("  %s as %s\n", w.green("confirmed"), edge.Type)
			}
		default:
			sess.RejectRelationship(rel)
		}
		return nil
	}
}

// reviewGaps puts every critical gap to the user; moderate gaps go to the
// backlog, minor gaps are discarded.
func (w *Wizard) reviewGaps(ctx context.Context, p *prompter, sess *session.DiscoverySession) error {
	accepted := sess.AcceptedTopics()
	topics := make([]types.Topic, len(accepted))
	for i, t := range accepted {
		topics[i] = *t
	}
	gaps, err := w.gaps.AnalyzeGaps(ctx, topics, sess.ConfirmedRelationships(), sess.Scope())
	if err != nil {
		fmt.Println(w.yellow("Gap analysis unavailable, continuing without."))
		return nil
	}
	if len(gaps) == 0 {
		fmt.Println(w.green("No coverage gaps found."))
		return nil
	}

	fmt.Printf("\n%s\n", w.bold(fmt.Sprintf("%d coverage gaps", len(gaps))))
	for _, gap := range gaps {
		switch gap.Severity {
		case discovery.GapCritical:
			if gap.SuggestedTopicName == "" {
				sess.AddGaps([]string{gap.Description})
				continue
			}
			ok, err := p.yesNo(fmt.Sprintf("  Critical: %s. Add topic %q?", gap.Description, gap.SuggestedTopicName), true)
			if err != nil {
				return err
			}
			if ok {
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
	return nil
}

// calibrateDepth lets the user retune complexity per topic before
// prioritization.
func (w *Wizard) calibrateDepth(p *prompter, sess *session.DiscoverySession) error {
	fmt.Printf("\n%s\n", w.bold("Depth calibration"))
	for _, t := range sess.AcceptedTopics() {
		fmt.Printf("  %-40s %s (~%d words)\n", t.ID, t.Complexity, t.EstimatedWordCount)
	}
	fmt.Println("Adjust with \"<topic-id> <beginner|intermediate|advanced>\" (empty line to finish):")
	for {
		line, err := p.ask("  depth> ")
		if err != nil {
			return err
		}
		if line == "" {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			fmt.Println(w.yellow("  expected: <topic-id> <level>"))
			continue
		}
		level := types.ComplexityLevel(strings.ToLower(fields[1]))
		if !level.IsValid() {
			fmt.Println(w.yellow("  unknown level: " + fields[1]))
			continue
		}
		sess.CalibrateTopicDepth(fields[0], level)
	}
}

func (w *Wizard) gatherRound(ctx context.Context, sess *session.DiscoverySession, cfg Config, round int, expanded map[string]bool) []suggest.TopicSuggestion {
	if round == 1 {
		suggestions, err := w.expander.InitialTopics(ctx, cfg.Domain, cfg.Description, sess.Scope(), cfg.Profile)
		if err != nil {
			fmt.Println(w.yellow("Initial topic generation failed: " + err.Error()))
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
		suggestions, err := w.expander.ExpandTopic(ctx, t.Name, cfg.Domain, existing, sess.Scope(), cfg.Profile)
		if err != nil {
			continue
		}
		out = append(out, suggestions...)
	}
	return out
}

func (w *Wizard) printSummary(u *types.TopicUniverse) {
	fmt.Printf("\n%s\n", w.bold("Universe complete"))
	fmt.Printf("  %d topics accepted, %d relationships, ~%d words\n",
		u.AcceptedCount(), len(u.ConfirmedRelationships()), u.EstimatedWordCount())
	if u.OrderingCycleDetected {
		fmt.Println(w.yellow("  relationship cycle detected; generation order is best-effort"))
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
