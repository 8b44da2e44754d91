// Command wikiplan plans a topic universe for an AI-assisted wiki: it
// discovers, validates, and curates the topics a domain needs, maps the
// relationships between them, and persists the result as a single plan
// document.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "wikiplan",
	Short: "Plan a topic universe for an AI-assisted wiki",
	Long: `wikiplan discovers and curates the set of topics a wiki on a given
domain should cover. Topics are suggested by an AI model, validated
against external knowledge bases, connected by typed relationships,
and ordered for generation.

Modes:
  discover  interactive, every decision is yours
  auto      autonomous, decisions follow quality scores`,
	SilenceUsage: true,
}

var (
	cfgFile     string
	flagVerbose bool
	flagQuiet   bool
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.wikiplan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().String("output", "", "universe store directory (default ~/.wikiplan/universes)")
	rootCmd.PersistentFlags().String("model", "", "model override")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".wikiplan")
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("WIKIPLAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && flagVerbose {
		fmt.Fprintf(os.Stderr, "using config file: %s\n", viper.ConfigFileUsed())
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// outputDir resolves the store directory: flag, then config, then the
// store's own default.
func outputDir() string {
	if dir := viper.GetString("output"); dir != "" {
		if abs, err := filepath.Abs(dir); err == nil {
			return abs
		}
		return dir
	}
	return ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
