package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wikiplan/wikiplan/internal/ai"
	"github.com/wikiplan/wikiplan/internal/autonomous"
	"github.com/wikiplan/wikiplan/internal/events"
	"github.com/wikiplan/wikiplan/internal/interactive"
	"github.com/wikiplan/wikiplan/internal/profile"
	"github.com/wikiplan/wikiplan/internal/search"
	"github.com/wikiplan/wikiplan/internal/types"
	"github.com/wikiplan/wikiplan/internal/universe"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <domain>",
	Short: "Interactively plan a topic universe",
	Long: `Walk through topic discovery for a domain, deciding on every
suggestion yourself. The AI proposes, external search validates,
you curate.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags, err := gatherRunFlags(cmd)
		if err != nil {
			return err
		}
		gen, validator, err := buildBackends()
		if err != nil {
			return err
		}

		wizard := interactive.New(gen, validator, runSink())
		u, err := wizard.Run(cmd.Context(), interactive.Config{
			Domain:              args[0],
			Description:         flags.description,
			Seeds:               flags.seeds,
			Profile:             flags.profile,
			ConfidenceThreshold: flags.confidence,
		})
		if err != nil {
			return err
		}
		return persist(u)
	},
}

var autoCmd = &cobra.Command{
	Use:   "auto <domain>",
	Short: "Autonomously plan a topic universe",
	Long: `Run the full discovery workflow without interaction: scope
inference, expansion rounds with score-based curation, relationship
mapping, gap analysis, and prioritization.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags, err := gatherRunFlags(cmd)
		if err != nil {
			return err
		}
		confirm, _ := cmd.Flags().GetBool("confirm")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		gen, validator, err := buildBackends()
		if err != nil {
			return err
		}

		var gate autonomousGate
		runner := autonomous.NewRunner(gen, validator, runSink(), gate.confirm)
		u, err := runner.Run(cmd.Context(), autonomous.Config{
			Domain:              args[0],
			Description:         flags.description,
			Seeds:               flags.seeds,
			Profile:             flags.profile,
			ConfidenceThreshold: flags.confidence,
			RequireConfirmation: confirm,
			DryRun:              dryRun,
		})
		if errors.Is(err, autonomous.ErrDeclined) {
			fmt.Println("scope declined, nothing saved")
			return nil
		}
		if err != nil {
			return err
		}
		if dryRun {
			fmt.Printf("dry run: universe %s not persisted (%d topics)\n", u.ID, u.AcceptedCount())
			return nil
		}
		return persist(u)
	},
}

// runFlags are the knobs shared by both modes.
type runFlags struct {
	description string
	seeds       []string
	profile     profile.CostProfile
	confidence  float64
}

func gatherRunFlags(cmd *cobra.Command) (runFlags, error) {
	description, _ := cmd.Flags().GetString("description")
	seeds, _ := cmd.Flags().GetStringArray("seed")
	profileName, _ := cmd.Flags().GetString("cost-profile")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	if profileName == "" {
		profileName = viper.GetString("cost_profile")
	}
	prof, err := profile.ByName(profileName)
	if err != nil {
		return runFlags{}, err
	}
	if confidence == 0 {
		confidence = viper.GetFloat64("confidence")
	}
	return runFlags{
		description: description,
		seeds:       seeds,
		profile:     prof,
		confidence:  confidence,
	}, nil
}

// buildBackends constructs the reasoning client and the grounding
// validator the discovery collaborators share.
func buildBackends() (ai.Generator, search.Validator, error) {
	gen, err := ai.NewClient(ai.Config{
		APIKey: viper.GetString("api_key"),
		Model:  viper.GetString("model"),
	})
	if err != nil {
		return nil, nil, err
	}
	validator := search.NewGroundingValidator(&http.Client{Timeout: 15 * time.Second})
	return gen, validator, nil
}

func runSink() events.Sink {
	if flagQuiet {
		return events.Discard
	}
	return newConsoleSink()
}

func persist(u *types.TopicUniverse) error {
	store, err := universe.NewStore(outputDir())
	if err != nil {
		return err
	}
	if err := store.Save(u); err != nil {
		return err
	}
	fmt.Printf("saved universe %s (%d topics) to %s\n", u.ID, u.AcceptedCount(), store.Root())
	return nil
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "what the wiki should cover")
	cmd.Flags().StringArrayP("seed", "s", nil, "seed topic (repeatable)")
	cmd.Flags().StringP("cost-profile", "p", "", "minimal, balanced, or comprehensive")
	cmd.Flags().Float64P("confidence", "c", 0, "autonomous accept threshold (0,1]")
}

// autonomousGate asks the scope confirmation question on stdin.
type autonomousGate struct{}

func (autonomousGate) confirm(summary string) bool {
	fmt.Println(summary)
	fmt.Print("Proceed with this scope? [Y/n] ")
	var answer string
	fmt.Fscanln(os.Stdin, &answer)
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "" || answer == "y" || answer == "yes"
}

func init() {
	registerRunFlags(discoverCmd)
	registerRunFlags(autoCmd)
	autoCmd.Flags().Bool("confirm", false, "pause for approval after scope inference")
	autoCmd.Flags().Bool("dry-run", false, "run the workflow without persisting")
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(autoCmd)
}
