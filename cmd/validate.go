// =============================================================================
// Shopify to SIE Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks a settings file
// against the generation precondition and, when given an export file, checks
// whether its header looks like a payout transaction export. Nothing is
// written.
//
// COMMAND USAGE:
//   sieconv validate [export-file] --settings settings.yaml
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nordliden/shopify-sie-converter/internal/config"
	"github.com/nordliden/shopify-sie-converter/internal/csvparser"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [export-file]",
	Short: "Check settings (and optionally an export) without generating",
	Long: `The validate command loads the settings file and reports every problem
that would block generation. When an export file is also given, its header row
is checked for the six required columns of a payout transaction export.

The header check is advisory: generate does not refuse to run on a header
mismatch, it degrades the missing fields to zero.`,

	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exportPath := ""
		if len(args) == 1 {
			exportPath = args[0]
		}
		return runValidate(exportPath)
	},
}

// init registers the validate command.
func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate performs the checks and prints one line per finding.
func runValidate(exportPath string) error {
	settings, err := config.Load(settingsFile)
	if err != nil {
		return err
	}

	ok := true

	if err := settings.ValidateForGeneration(); err != nil {
		ok = false
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("Settings %s: %d problem(s)\n", settingsFile, len(verr.Problems))
			for _, p := range verr.Problems {
				fmt.Printf("  ✗ %s\n", p)
			}
		} else {
			fmt.Printf("  ✗ %v\n", err)
		}
	} else {
		fmt.Printf("Settings %s: ready for generation\n", settingsFile)
	}

	if exportPath != "" {
		file, err := os.Open(exportPath)
		if err != nil {
			return fmt.Errorf("failed to open export: %w", err)
		}
		defer file.Close()

		data, err := csvparser.Parse(file)
		if err != nil {
			return err
		}

		if csvparser.IsPayoutExportHeader(data.Headers) {
			fmt.Printf("Export %s: recognized payout transaction export, %d rows\n", exportPath, data.RowCount)
		} else {
			ok = false
			fmt.Printf("Export %s: missing required columns (need %v)\n", exportPath, csvparser.RequiredColumns)
		}
	}

	if !ok {
		return fmt.Errorf("validation failed")
	}

	return nil
}
