// =============================================================================
// Shopify to SIE Converter - CSV Parser Module
// =============================================================================
//
// This module parses the payout transaction export from text into rows of
// named fields. The export is a comma-delimited table with a single header
// row; the parser keeps every column it finds (the export carries many more
// columns than the converter consumes) and hands the rows to the normalizer
// as header -> value maps.
//
// The parser also exposes the header-shape predicate used to recognize the
// export format. The predicate is advisory: it gates preview and messaging
// behavior for callers but does not block parsing.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// =============================================================================
// REQUIRED COLUMNS
// =============================================================================

// Column names consumed by the normalizer, by their exact export names.
const (
	ColTransactionDate = "Transaction Date"
	ColType            = "Type"
	ColPayoutDate      = "Payout Date"
	ColAmount          = "Amount"
	ColFee             = "Fee"
	ColNet             = "Net"

	// Optional columns.
	ColOrder = "Order"
	ColVAT   = "VAT"
)

// RequiredColumns lists the six columns a payout transaction export must
// carry to be recognized as such.
var RequiredColumns = []string{
	ColTransactionDate,
	ColType,
	ColPayoutDate,
	ColAmount,
	ColFee,
	ColNet,
}

// =============================================================================
// EXPORT DATA STRUCTURE
// =============================================================================

// ExportData represents a parsed payout export.
type ExportData struct {
	// Headers contains the column headers, trimmed.
	Headers []string

	// Rows contains the data rows as maps of header -> value.
	Rows []map[string]string

	// RowCount is the number of data rows (excluding the header).
	RowCount int

	// ColumnCount is the number of columns in the export.
	ColumnCount int
}

// =============================================================================
// HEADER PREDICATE
// =============================================================================

// IsPayoutExportHeader reports whether the header row contains all required
// columns of a payout transaction export. Matching is exact and
// order-independent.
func IsPayoutExportHeader(headers []string) bool {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}

	for _, required := range RequiredColumns {
		if !present[required] {
			return false
		}
	}

	return true
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a payout export from r and returns the parsed data.
//
// The first row is the header; every following non-empty row becomes a map
// of header -> trimmed value. Rows shorter than the header are padded with
// empty strings so that field access by name is always defined.
func Parse(r io.Reader) (*ExportData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("export is empty")
	}

	return FromRawRows(allRows)
}

// ParseString is a convenience wrapper around Parse for callers holding the
// export as an already-read string.
func ParseString(text string) (*ExportData, error) {
	return Parse(strings.NewReader(text))
}

// FromRawRows builds ExportData from already-split rows, the first row being
// the header. The XLSX parser feeds workbook rows through here so both input
// formats shape rows identically.
func FromRawRows(allRows [][]string) (*ExportData, error) {
	if len(allRows) == 0 {
		return nil, fmt.Errorf("export is empty")
	}

	headers := cleanHeaders(allRows[0])
	rows := extractDataRows(allRows[1:], headers)

	return &ExportData{
		Headers:     headers,
		Rows:        rows,
		RowCount:    len(rows),
		ColumnCount: len(headers),
	}, nil
}

// configureReader configures the CSV reader for the payout export format.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','

	// The export occasionally carries a ragged trailer row; tolerate
	// inconsistent field counts and pad/truncate per row instead.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims whitespace from header values and names any empty
// header by its column position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}

	return cleaned
}

// extractDataRows converts raw rows to header -> value maps, skipping rows
// that are entirely empty.
func extractDataRows(raw [][]string, headers []string) []map[string]string {
	rows := make([]map[string]string, 0, len(raw))

	for _, row := range raw {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for colIndex, header := range headers {
			if colIndex < len(row) {
				rowMap[header] = strings.TrimSpace(row[colIndex])
			} else {
				rowMap[header] = ""
			}
		}

		rows = append(rows, rowMap)
	}

	return rows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
