// =============================================================================
// Shopify to SIE Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command the subcommands attach to:
//
//   sieconv
//   ├── generate  (convert one payout export to an SIE file)
//   ├── validate  (check settings and/or an export header without writing)
//   ├── report    (render a voucher summary PDF)
//   └── version
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL FLAGS
// =============================================================================

// settingsFile holds the path to the settings file.
var settingsFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sieconv",
	Short: "Shopify to SIE Converter - Turn payout exports into Fortnox vouchers",

	Long: `Shopify to SIE Converter reads a Shopify payments/payout transaction
export (CSV or XLSX) and produces an SIE type 4 ledger file that Fortnox and
other Swedish bookkeeping systems can import.

Settled transactions are normalized, missing VAT is back-computed from a flat
rate, entries are grouped into vouchers per order or per payout date, and the
result is serialized with the exact syntactic conventions the SIE format
demands.

Example Usage:
  sieconv generate payout_transactions.csv --settings settings.yaml
  sieconv generate export.xlsx --settings settings.yaml --encoding pc8
  sieconv validate --settings settings.yaml
  sieconv report payout_transactions.csv --settings settings.yaml`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&settingsFile,
		"settings",
		"settings.yaml",
		"Path to the settings file (default is settings.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
