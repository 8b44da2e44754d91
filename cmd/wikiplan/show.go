package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wikiplan/wikiplan/internal/types"
	"github.com/wikiplan/wikiplan/internal/universe"
)

var showCmd = &cobra.Command{
	Use:   "show <universe-id>",
	Short: "Show a stored universe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := universe.NewStore(outputDir())
		if err != nil {
			return err
		}
		u, err := store.Load(args[0])
		if err != nil {
			return err
		}
		printUniverse(u)
		return nil
	},
}

func printUniverse(u *types.TopicUniverse) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("%s  %s\n", bold(u.Name), gray(u.ID))
	if u.Description != "" {
		fmt.Println(u.Description)
	}
	fmt.Printf("%d topics accepted, ~%d words total\n\n", u.AcceptedCount(), u.EstimatedWordCount())

	if scope := u.Scope.PromptFormat(); scope != "" {
		fmt.Printf("%s\n%s\n", bold("Scope"), scope)
	}

	fmt.Println(bold("Topics (generation order)"))
	ordered := u.GenerationOrder
	if len(ordered) == 0 {
		for _, t := range u.AcceptedTopics() {
			ordered = append(ordered, t.ID)
		}
	}
	for i, id := range ordered {
		t := u.TopicByID(id)
		if t == nil {
			continue
		}
		marker := " "
		if t.IsLandingPage {
			marker = green("*")
		}
		fmt.Printf("  %2d. %s %s %s\n", i+1, marker, t.Name,
			gray(fmt.Sprintf("(%s, %s, %s, ~%d words)", t.Priority, t.ContentType, t.Complexity, t.EstimatedWordCount)))
	}
	if u.OrderingCycleDetected {
		fmt.Println(yellow("  relationship cycle detected; order is best-effort"))
	}

	if rels := u.ConfirmedRelationships(); len(rels) > 0 {
		fmt.Printf("\n%s\n", bold("Relationships"))
		for _, r := range rels {
			fmt.Printf("  %s %s %s\n", r.SourceID, strings.ReplaceAll(string(r.Type), "_", " "), r.TargetID)
		}
	}

	if len(u.Backlog) > 0 {
		fmt.Printf("\n%s\n", bold("Backlog"))
		for _, b := range u.Backlog {
			if b.Name != "" {
				fmt.Printf("  %s: %s\n", b.Name, b.Description)
			} else {
				fmt.Printf("  %s\n", b.Description)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
}
