// =============================================================================
// Shopify to SIE Converter - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which converts one payout export
// into an SIE file.
//
// COMMAND USAGE:
//   sieconv generate <export-file> [flags]
//
// FLAGS:
//   --out       : Output file path (default: <export name>.sie next to input)
//   --encoding  : Output encoding: utf8, pc8 (CP437) or cp1252
//   --strict    : Fail on malformed numeric fields instead of coercing to zero
//   --dry-run   : Run the pipeline and print stats without writing anything
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nordliden/shopify-sie-converter/internal/config"
	"github.com/nordliden/shopify-sie-converter/internal/converter"
	"github.com/nordliden/shopify-sie-converter/internal/siewriter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// outPath overrides the output file location.
var outPath string

// outEncoding selects the output byte encoding.
var outEncoding string

// strictParsing fails the run on malformed numeric fields.
var strictParsing bool

// dryRun runs the pipeline without writing output.
var dryRun bool

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate <export-file>",
	Short: "Convert a payout export to an SIE ledger file",
	Long: `The generate command reads a Shopify payout transaction export (CSV or
XLSX), normalizes the settled transactions, back-computes missing VAT from the
configured flat rate, groups entries into vouchers and writes the SIE type 4
document.

Generation refuses to run when the settings are incomplete (missing company
identity, account codes or fiscal year); run 'sieconv validate' to see what a
settings file is missing.

Rows without a payout date are skipped: they are not yet settled and have no
ledger-postable date. Malformed numeric fields are treated as zero unless
--strict is given.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(args[0])
	},
}

// init registers the generate command and its flags.
func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(
		&outPath,
		"out",
		"",
		"Output file path (default: <export name>.sie next to the input)",
	)

	generateCmd.Flags().StringVar(
		&outEncoding,
		"encoding",
		string(siewriter.EncodingUTF8),
		"Output encoding: utf8, pc8 or cp1252",
	)

	generateCmd.Flags().BoolVar(
		&strictParsing,
		"strict",
		false,
		"Fail on malformed numeric fields instead of coercing them to zero",
	)

	generateCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Run the pipeline and print stats without writing anything",
	)
}

// =============================================================================
// COMMAND EXECUTION
// =============================================================================

// runGenerate loads the settings, runs the conversion and prints a summary.
func runGenerate(exportPath string) error {
	settings, err := config.Load(settingsFile)
	if err != nil {
		return err
	}

	logger, err := converter.NewLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	conv := converter.New(exportPath, settings, converter.ConvertOptions{
		OutPath:  outPath,
		Encoding: siewriter.Encoding(outEncoding),
		Strict:   strictParsing,
		DryRun:   dryRun,
		Writer: siewriter.Options{
			ProgramName:    "shopify-sie-converter",
			ProgramVersion: Version,
		},
	}, logger)

	result := conv.Run()
	if !result.Success {
		return result.Error
	}

	fmt.Println("=== Conversion Complete ===")
	fmt.Printf("Rows read:        %d\n", result.Stats.RowsRead)
	fmt.Printf("Rows skipped:     %d (no payout date)\n", result.Stats.RowsSkipped)
	fmt.Printf("Entries:          %d\n", result.Stats.EntriesNormalized)
	fmt.Printf("Vouchers:         %d\n", result.Stats.VouchersEmitted)
	fmt.Printf("Time elapsed:     %s\n", result.Stats.ProcessingTime)
	if result.OutputFile != "" {
		fmt.Printf("Output:           %s\n", result.OutputFile)
	}

	return nil
}
