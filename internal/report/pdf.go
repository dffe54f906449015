// =============================================================================
// Shopify to SIE Converter - Voucher Summary Report
// =============================================================================
//
// This module renders a one-page-per-run PDF summary of the generated
// vouchers so they can be reviewed before the SIE file is imported: one
// table row per voucher with date, number, totals and order count.
//
// The report is a convenience artifact; the SIE document remains the only
// output the bookkeeping system consumes.
//
// =============================================================================

package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/nordliden/shopify-sie-converter/internal/config"
	"github.com/nordliden/shopify-sie-converter/internal/siewriter"
	"github.com/nordliden/shopify-sie-converter/internal/types"
)

// column widths in mm, matching the header order below.
var colWidths = []float64{12, 22, 55, 25, 25, 25, 25, 15}

var colHeaders = []string{"No", "Date", "Description", "Gross", "VAT", "Fees", "Net", "Orders"}

// BuildVoucherSummary renders the voucher summary PDF and returns its bytes.
// Vouchers are listed in serializer order, so the "No" column matches the
// voucher numbers in the SIE file.
func BuildVoucherSummary(vouchers []types.AggregatedVoucher, settings config.Settings) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	// The SIE texts are Swedish; gofpdf's core fonts are cp1252, so map
	// UTF-8 input onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Voucher summary - %s (%s)", settings.CompanyName, settings.OrgNumber)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Fiscal year %s - %s, series %s, grouping %s",
		types.FormatISO(settings.FiscalYearStart), types.FormatISO(settings.FiscalYearEnd),
		settings.VoucherSeries, settings.Grouping)))
	pdf.Ln(10)

	// Header row.
	pdf.SetFont("Arial", "B", 9)
	for i, h := range colHeaders {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	// One row per voucher.
	pdf.SetFont("Arial", "", 9)
	for i, v := range vouchers {
		description := v.Description
		orders := ""
		if v.OrderCount > 0 {
			orders = strconv.Itoa(v.OrderCount)
		}

		cells := []string{
			strconv.Itoa(i + 1),
			types.FormatISO(v.Date),
			description,
			siewriter.FormatAmount(v.TotalGross),
			siewriter.FormatAmount(v.TotalVAT),
			siewriter.FormatAmount(v.TotalFees),
			siewriter.FormatAmount(v.TotalNet),
			orders,
		}
		for j, cell := range cells {
			pdf.CellFormat(colWidths[j], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return buf.Bytes(), nil
}
