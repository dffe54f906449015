// =============================================================================
// Shopify to SIE Converter - Transaction Normalizer Module
// =============================================================================
//
// This module turns parsed export rows into canonical monetary entries. It
// owns the lenient coercion rules of the pipeline:
//
//   - Rows without a payout date are skipped: the funds have not settled and
//     the row has no ledger-postable date yet. This is a condition, not an
//     error.
//   - Numeric fields that are missing or malformed coerce to zero. Strict
//     mode upgrades malformed (non-empty) fields and unparseable payout
//     dates to collected diagnostics that fail the run.
//   - Fees are stored as non-negative magnitudes; the sign in the export is
//     not meaningful.
//   - The export's own Net value wins over the computed gross - fee whenever
//     it is non-zero.
//
// Dates are canonicalized through the UTC-pinned helpers in the types
// package; nothing here consults the local time zone.
//
// =============================================================================

package normalizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nordliden/shopify-sie-converter/internal/csvparser"
	"github.com/nordliden/shopify-sie-converter/internal/types"
)

// =============================================================================
// OPTIONS AND STATS
// =============================================================================

// Options controls normalization behavior.
type Options struct {
	// Strict upgrades silent zero-coercion of malformed numeric fields and
	// unparseable payout dates to errors. The default (lenient) mode is the
	// compatibility mode: bad input becomes zero, settled rows always make
	// it into the ledger.
	Strict bool
}

// Stats describes what happened to the rows of one export.
type Stats struct {
	// RowsRead is the number of data rows seen.
	RowsRead int

	// RowsSkipped is the number of rows dropped for lacking a payout date.
	RowsSkipped int

	// Entries is the number of normalized entries produced.
	Entries int
}

// =============================================================================
// STRICT-MODE DIAGNOSTICS
// =============================================================================

// Diagnostic describes one rejected field in strict mode.
type Diagnostic struct {
	// Row is the 1-indexed data row number (header not counted).
	Row int

	// Column is the export column name.
	Column string

	// Value is the offending raw value.
	Value string

	// Reason says why the value was rejected.
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d, column %q: %s (value %q)", d.Row, d.Column, d.Reason, d.Value)
}

// StrictError is returned when strict mode collected one or more diagnostics.
type StrictError struct {
	Diagnostics []Diagnostic
}

func (e *StrictError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%d malformed field(s): %s", len(e.Diagnostics), strings.Join(parts, "; "))
}

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize converts parsed export rows into normalized entries.
//
// In lenient mode the returned error is always nil. In strict mode a
// *StrictError is returned (along with the entries built from clean rows)
// when any field was rejected.
func Normalize(data *csvparser.ExportData, opts Options) ([]types.NormalizedEntry, Stats, error) {
	entries := make([]types.NormalizedEntry, 0, len(data.Rows))
	stats := Stats{RowsRead: len(data.Rows)}
	var diags []Diagnostic

	for i, row := range data.Rows {
		rowNum := i + 1

		payoutRaw := row[csvparser.ColPayoutDate]
		if payoutRaw == "" {
			// Not yet settled; no postable date.
			stats.RowsSkipped++
			continue
		}

		payoutDate, err := types.CanonicalDate(payoutRaw)
		if err != nil {
			if opts.Strict {
				diags = append(diags, Diagnostic{
					Row:    rowNum,
					Column: csvparser.ColPayoutDate,
					Value:  payoutRaw,
					Reason: "unrecognized date",
				})
			} else {
				stats.RowsSkipped++
			}
			continue
		}

		gross := parseAmount(row, csvparser.ColAmount, rowNum, opts, &diags)
		fee := parseAmount(row, csvparser.ColFee, rowNum, opts, &diags).Abs()
		vat := parseAmount(row, csvparser.ColVAT, rowNum, opts, &diags)
		netRaw := parseAmount(row, csvparser.ColNet, rowNum, opts, &diags)

		// A negative VAT from the export is treated as "not supplied" and
		// left for the VAT resolver.
		if vat.Sign() < 0 {
			vat = decimal.Zero
		}

		// The export's net wins whenever it is non-zero; otherwise fall
		// back to the computed value.
		net := gross.Sub(fee).Round(2)
		if !netRaw.IsZero() {
			net = netRaw
		}

		entries = append(entries, types.NormalizedEntry{
			PayoutDate: payoutDate,
			Gross:      gross,
			VAT:        vat,
			Fee:        fee,
			Net:        net,
			OrderID:    strings.TrimSpace(row[csvparser.ColOrder]),
		})
	}

	stats.Entries = len(entries)

	if len(diags) > 0 {
		return entries, stats, &StrictError{Diagnostics: diags}
	}

	return entries, stats, nil
}

// parseAmount coerces a numeric field to a decimal. Missing and malformed
// values coerce to zero; in strict mode a malformed (non-empty) value is
// additionally recorded as a diagnostic.
func parseAmount(row map[string]string, column string, rowNum int, opts Options, diags *[]Diagnostic) decimal.Decimal {
	raw := strings.TrimSpace(row[column])
	if raw == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		if opts.Strict {
			*diags = append(*diags, Diagnostic{
				Row:    rowNum,
				Column: column,
				Value:  raw,
				Reason: "not a number",
			})
		}
		return decimal.Zero
	}

	return d
}
