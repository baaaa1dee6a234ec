package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Build a recommendation bundle for one investor",
	Long: `Builds a recommendation bundle for a single investor and prints it
as JSON.

This command:
- Resolves the investor's mandate and trust policy
- Scores and screens every candidate property in the org
- Splits results into recommendations and counterfactuals

Example:
  go run ./cmd/propmatch match --investor inv_001
  go run ./cmd/propmatch match --investor inv_001 --no-cache`,
	RunE: runMatch,
}

var (
	matchInvestorID string
	matchNoCache    bool
)

func init() {
	rootCmd.AddCommand(matchCmd)

	// Flags
	matchCmd.Flags().StringVar(&matchInvestorID, "investor", "", "investor ID (required)")
	matchCmd.Flags().BoolVar(&matchNoCache, "no-cache", false, "skip the bundle cache")
	matchCmd.MarkFlagRequired("investor")
}

func runMatch(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if matchNoCache {
		d.rdb = nil
	}

	engine := buildEngine(d)

	bundle, err := engine.BuildRecommendationBundle(cmd.Context(), matchInvestorID, nil)
	if err != nil {
		return fmt.Errorf("build bundle: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	return nil
}
