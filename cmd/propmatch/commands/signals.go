package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// signalsCmd represents the signals command
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Signal matching runs",
	Long: `Maps unmapped market signals to the investors they concern.

Subcommands:
  run    - one batch, returns a cursor for the next page
  drain  - loop until the unmapped backlog is empty

Example:
  go run ./cmd/propmatch signals run --org org_001 --limit 50
  go run ./cmd/propmatch signals run --org org_001 --cursor sig_0042
  go run ./cmd/propmatch signals drain --org org_001`,
}

var (
	signalsRunCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one signal matching batch",
		RunE:  runSignalsBatch,
	}

	signalsDrainCmd = &cobra.Command{
		Use:   "drain",
		Short: "Drain the unmapped signal backlog",
		RunE:  runSignalsDrain,
	}

	signalsOrgID  string
	signalsLimit  int
	signalsCursor string
)

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.AddCommand(signalsRunCmd)
	signalsCmd.AddCommand(signalsDrainCmd)

	// Flags
	signalsCmd.PersistentFlags().StringVar(&signalsOrgID, "org", "", "org ID (required)")
	signalsCmd.PersistentFlags().IntVar(&signalsLimit, "limit", 50, "max signals to process per batch")
	signalsRunCmd.Flags().StringVar(&signalsCursor, "cursor", "", "resume cursor from a previous run")
	signalsCmd.MarkPersistentFlagRequired("org")
}

func runSignalsBatch(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	matcher := buildMatcher(d)

	stats, err := matcher.MatchUnmapped(cmd.Context(), signalsOrgID, signalsLimit, signalsCursor)
	if err != nil {
		return fmt.Errorf("match signals: %w", err)
	}

	fmt.Printf("✅ Batch complete\n")
	fmt.Printf("   Written:  %d\n", stats.WrittenCount)
	fmt.Printf("   Scanned:  %d\n", stats.Scanned)
	fmt.Printf("   Unmapped: %d\n", stats.Unmapped)
	if stats.NextCursor != nil {
		fmt.Printf("   Next cursor: %s\n", *stats.NextCursor)
	} else {
		fmt.Println("   Feed exhausted")
	}

	return nil
}

func runSignalsDrain(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	matcher := buildMatcher(d)

	stats, err := matcher.Drain(cmd.Context(), signalsOrgID, signalsLimit)
	if err != nil {
		return fmt.Errorf("drain signals: %w", err)
	}

	fmt.Printf("✅ Backlog drained\n")
	fmt.Printf("   Written: %d\n", stats.WrittenCount)
	fmt.Printf("   Scanned: %d\n", stats.Scanned)

	return nil
}
