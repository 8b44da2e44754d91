package autonomous

import (
	"fmt"
	"strings"

	"github.com/wikiplan/wikiplan/internal/profile"
	"github.com/wikiplan/wikiplan/internal/scoring"
)

// Config holds everything an autonomous run needs from the caller.
// Construction clamps the numeric knobs and rejects only genuine caller
// mistakes.
type Config struct {
	Domain              string
	Description         string
	Seeds               []string
	Profile             profile.CostProfile
	ConfidenceThreshold float64

	// RequireConfirmation pauses after scope inference for a yes/no gate.
	RequireConfirmation bool
	// DryRun runs the full workflow but skips persistence.
	DryRun bool
}

// NewConfig validates and normalizes an autonomous configuration. A blank
// domain is an error; an out-of-range confidence threshold is clamped to
// the default.
func NewConfig(cfg Config) (Config, error) {
	cfg.Domain = strings.TrimSpace(cfg.Domain)
	if cfg.Domain == "" {
		return Config{}, fmt.Errorf("domain name is required")
	}
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		cfg.ConfidenceThreshold = scoring.DefaultAcceptThreshold
	}
	if cfg.Profile.Name == "" {
		cfg.Profile = profile.Balanced
	}
	seeds := make([]string, 0, len(cfg.Seeds))
	for _, s := range cfg.Seeds {
		if s = strings.TrimSpace(s); s != "" {
			seeds = append(seeds, s)
		}
	}
	cfg.Seeds = seeds
	return cfg, nil
}
