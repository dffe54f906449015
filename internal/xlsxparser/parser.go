// =============================================================================
// Shopify to SIE Converter - XLSX Parser Module
// =============================================================================
//
// This module reads the payout transaction export when it arrives as an XLSX
// workbook instead of CSV. Shopify offers both download formats; the workbook
// form carries the same table on its first sheet, first row being the header.
//
// The parser produces the same ExportData as the CSV parser so that the rest
// of the pipeline is format-agnostic.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nordliden/shopify-sie-converter/internal/csvparser"
)

// Parse reads a payout export workbook from r and returns the parsed data.
//
// Only the first sheet is consulted. Cell values arrive as the formatted
// strings excelize produces, which for the export's date and amount columns
// match the CSV text form.
func Parse(r io.Reader) (*csvparser.ExportData, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	allRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("export is empty")
	}

	// Reuse the CSV row shaping: same header cleaning, same padding of
	// short rows, same empty-row skipping.
	return csvparser.FromRawRows(allRows)
}
