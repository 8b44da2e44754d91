package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wikiplan/wikiplan/internal/universe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored universes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := universe.NewStore(outputDir())
		if err != nil {
			return err
		}
		summaries, err := store.List()
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("no universes stored in", store.Root())
			return nil
		}

		bold := color.New(color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, s := range summaries {
			fmt.Printf("%s  %s\n", bold(s.Name), gray(s.ID))
			fmt.Printf("  %d topics (%d accepted), %d relationships, created %s\n",
				s.Topics, s.Accepted, s.Relationships, s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
