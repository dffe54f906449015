// =============================================================================
// Shopify to SIE Converter - Report Command
// =============================================================================
//
// This file defines the 'report' command, which runs the pipeline for an
// export and renders a voucher summary PDF instead of (not in addition to)
// the SIE file. Useful for reviewing the vouchers before importing.
//
// COMMAND USAGE:
//   sieconv report <export-file> [flags]
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nordliden/shopify-sie-converter/internal/config"
	"github.com/nordliden/shopify-sie-converter/internal/converter"
	"github.com/nordliden/shopify-sie-converter/internal/report"
	"github.com/nordliden/shopify-sie-converter/pkg/utils"
)

// reportOut overrides the report output location.
var reportOut string

// reportCmd represents the 'report' command.
var reportCmd = &cobra.Command{
	Use:   "report <export-file>",
	Short: "Render a voucher summary PDF for a payout export",
	Long: `The report command runs the same pipeline as generate (normalize,
resolve VAT, aggregate) and renders the resulting vouchers as a PDF table for
review. No SIE file is written.`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(args[0])
	},
}

// init registers the report command and its flags.
func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(
		&reportOut,
		"out",
		"",
		"Report file path (default: <export name>_vouchers.pdf next to the input)",
	)
}

// runReport runs the pipeline in dry-run mode and writes the PDF.
func runReport(exportPath string) error {
	settings, err := config.Load(settingsFile)
	if err != nil {
		return err
	}

	logger, err := converter.NewLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	conv := converter.New(exportPath, settings, converter.ConvertOptions{DryRun: true}, logger)
	result := conv.Run()
	if !result.Success {
		return result.Error
	}

	pdfBytes, err := report.BuildVoucherSummary(result.Vouchers, settings)
	if err != nil {
		return err
	}

	outputPath := reportOut
	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(exportPath), filepath.Ext(exportPath))
		outputPath = filepath.Join(filepath.Dir(exportPath), base+"_vouchers.pdf")
	}

	if err := utils.WriteFileAtomic(outputPath, pdfBytes); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("Wrote %s (%d vouchers)\n", outputPath, len(result.Vouchers))
	return nil
}
