// =============================================================================
// Shopify to SIE Converter - Converter Module
// =============================================================================
//
// This module contains the orchestration logic. It runs the whole pipeline
// for a single export file, from parsing to writing the SIE document.
//
// CONVERSION PIPELINE:
//   1. Enforce the settings precondition (ValidateForGeneration)
//   2. Read and parse the export (CSV or XLSX, by extension)
//   3. Normalize rows into canonical entries
//   4. Resolve missing VAT from the flat rate
//   5. Aggregate entries into vouchers under the grouping policy
//   6. Serialize the SIE document
//   7. Encode and write the output file
//
// The pipeline itself is a pure transformation; this module owns the only
// I/O (reading the export, writing the artifact) and reports the outcome as
// a typed Result rather than panicking or exiting.
//
// =============================================================================

package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nordliden/shopify-sie-converter/internal/aggregator"
	"github.com/nordliden/shopify-sie-converter/internal/config"
	"github.com/nordliden/shopify-sie-converter/internal/csvparser"
	"github.com/nordliden/shopify-sie-converter/internal/normalizer"
	"github.com/nordliden/shopify-sie-converter/internal/siewriter"
	"github.com/nordliden/shopify-sie-converter/internal/types"
	"github.com/nordliden/shopify-sie-converter/internal/vat"
	"github.com/nordliden/shopify-sie-converter/internal/xlsxparser"
	"github.com/nordliden/shopify-sie-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single export file.
type Result struct {
	// InputFile is the path to the export that was processed.
	InputFile string

	// OutputFile is the path to the generated SIE file. Empty on failure
	// and on dry runs.
	OutputFile string

	// Success indicates whether the conversion completed.
	Success bool

	// Error contains the failure when Success is false.
	Error error

	// Vouchers is the aggregated voucher sequence, available to callers
	// that want to render reports from the same run.
	Vouchers []types.AggregatedVoucher

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one conversion.
type ProcessingStats struct {
	// RowsRead is the number of data rows in the export.
	RowsRead int

	// RowsSkipped is the number of rows without a payout date.
	RowsSkipped int

	// EntriesNormalized is the number of canonical entries produced.
	EntriesNormalized int

	// VouchersEmitted is the number of vouchers in the document.
	VouchersEmitted int

	// ProcessingTime is the time taken for the whole run.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// ConvertOptions tunes a single conversion run.
type ConvertOptions struct {
	// OutPath overrides the output location. Empty means "next to the
	// input, named <input>.sie".
	OutPath string

	// Encoding selects the output byte encoding.
	Encoding siewriter.Encoding

	// Strict enables strict numeric parsing (see normalizer.Options).
	Strict bool

	// DryRun runs the whole pipeline but writes nothing.
	DryRun bool

	// Writer overrides the SIE generation options; zero value uses defaults.
	Writer siewriter.Options
}

// Converter handles the conversion of a single export file to SIE.
type Converter struct {
	inputPath string
	settings  config.Settings
	opts      ConvertOptions
	logger    Logger
}

// New creates a Converter for one export file. A nil logger is replaced
// with a no-op logger.
func New(inputPath string, settings config.Settings, opts ConvertOptions, logger Logger) *Converter {
	if logger == nil {
		logger = NopLogger()
	}
	return &Converter{
		inputPath: inputPath,
		settings:  settings,
		opts:      opts,
		logger:    logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file and reports the outcome.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		InputFile: c.inputPath,
	}

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// Precondition: refuse to emit a financially meaningless document.
	if err := c.settings.ValidateForGeneration(); err != nil {
		return fail(err)
	}

	c.logger.Info("Processing export: %s", c.inputPath)

	// Parse the export, by extension.
	data, err := c.parseInput()
	if err != nil {
		return fail(err)
	}
	result.Stats.RowsRead = data.RowCount
	c.logger.Debug("Parsed %d rows, %d columns", data.RowCount, data.ColumnCount)

	// The header check is advisory: a missing column degrades that field
	// to zero rather than blocking the run, but the operator should know.
	if !csvparser.IsPayoutExportHeader(data.Headers) {
		c.logger.Warn("Input does not look like a payout transaction export (missing required columns)")
	}

	// Normalize.
	entries, normStats, err := normalizer.Normalize(data, normalizer.Options{Strict: c.opts.Strict})
	if err != nil {
		return fail(fmt.Errorf("strict parsing failed: %w", err))
	}
	result.Stats.RowsSkipped = normStats.RowsSkipped
	result.Stats.EntriesNormalized = normStats.Entries
	c.logger.Debug("Normalized %d entries (%d rows skipped without payout date)",
		normStats.Entries, normStats.RowsSkipped)

	// Resolve VAT.
	entries = vat.Apply(entries, c.settings.VATRate())

	// Aggregate.
	vouchers, err := aggregator.Aggregate(entries, c.settings.Grouping)
	if err != nil {
		return fail(err)
	}
	result.Vouchers = vouchers
	result.Stats.VouchersEmitted = len(vouchers)
	c.logger.Debug("Aggregated %d vouchers under policy %q", len(vouchers), c.settings.Grouping)

	// Serialize.
	doc := siewriter.GenerateWithOptions(vouchers, c.settings, c.opts.Writer)

	if c.opts.DryRun {
		c.logger.Info("Dry run: %d vouchers, %d bytes, nothing written",
			len(vouchers), len(doc))
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// Encode and write.
	outputPath, err := c.writeOutput(doc)
	if err != nil {
		return fail(err)
	}
	result.OutputFile = outputPath
	c.logger.Info("Wrote %s", outputPath)

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseInput reads the export file and parses it as CSV or XLSX based on
// the file extension.
func (c *Converter) parseInput() (*csvparser.ExportData, error) {
	file, err := os.Open(c.inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(c.inputPath)) {
	case ".xlsx":
		return xlsxparser.Parse(file)
	default:
		return csvparser.Parse(file)
	}
}

// writeOutput encodes the document and writes the output artifact.
func (c *Converter) writeOutput(doc string) (string, error) {
	encoded, err := siewriter.Encode(doc, c.opts.Encoding)
	if err != nil {
		return "", err
	}

	outputPath := c.opts.OutPath
	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(c.inputPath), filepath.Ext(c.inputPath))
		outputPath = filepath.Join(filepath.Dir(c.inputPath),
			utils.GenerateOutputFileName("{name}.sie", map[string]string{"name": base}))
	}

	if err := utils.WriteFileAtomic(outputPath, encoded); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}

	return outputPath, nil
}
