package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/wikiplan/wikiplan/internal/events"
)

// consoleSink renders session events as colored progress lines.
type consoleSink struct {
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
}

func newConsoleSink() *consoleSink {
	return &consoleSink{
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan, color.Bold).SprintFunc(),
		gray:   color.New(color.FgHiBlack).SprintFunc(),
	}
}

func (s *consoleSink) Emit(e events.Event) {
	switch e.Type {
	case events.EventTypePhaseStarted:
		fmt.Printf("\n%s\n", s.cyan("=== "+titleFor(e.Message)+" ==="))
	case events.EventTypeTopicAccepted:
		fmt.Printf("  %s %s\n", s.green("+"), e.Message)
	case events.EventTypeTopicRejected:
		fmt.Printf("  %s %s\n", s.gray("-"), s.gray(e.Message))
	case events.EventTypeTopicDeferred:
		fmt.Printf("  %s %s\n", s.yellow("~"), e.Message)
	case events.EventTypeRelationshipConfirmed:
		fmt.Printf("  %s %s\n", s.green("link"), e.Message)
	case events.EventTypeRoundComplete:
		fmt.Printf("  %s\n", s.gray(e.Message))
	case events.EventTypeConvergenceReached:
		fmt.Printf("  %s %s\n", s.yellow("stop:"), e.Message)
	case events.EventTypeGapsFound:
		fmt.Printf("  %s %s\n", s.yellow("gaps:"), e.Message)
	case events.EventTypeUniverseComplete:
		fmt.Printf("\n%s %s\n", s.green("done:"), e.Message)
	}
}

func titleFor(phase string) string {
	switch phase {
	case "scope_setup":
		return "Scope Setup"
	case "topic_expansion":
		return "Topic Expansion"
	case "relationship_mapping":
		return "Relationship Mapping"
	case "gap_analysis":
		return "Gap Analysis"
	case "depth_calibration":
		return "Depth Calibration"
	case "prioritization":
		return "Prioritization"
	case "review":
		return "Review"
	case "complete":
		return "Complete"
	default:
		return phase
	}
}
