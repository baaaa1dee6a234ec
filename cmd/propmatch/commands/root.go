package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "propmatch",
	Short: "PropMatch - mandate-constrained property matching engine",
	Long: `PropMatch Unified CLI

Matching backend for a real-estate investment CRM.
Scores candidate properties against investor mandates, explains
near-misses, and maps market signals to the investors they concern.

Usage:
  go run ./cmd/propmatch [command]

Examples:
  go run ./cmd/propmatch api
  go run ./cmd/propmatch match --investor inv_001
  go run ./cmd/propmatch signals run --org org_001
  go run ./cmd/propmatch test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
