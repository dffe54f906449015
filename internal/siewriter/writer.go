// =============================================================================
// Shopify to SIE Converter - SIE Writer Module
// =============================================================================
//
// This module renders the aggregated vouchers into an SIE type 4 document
// for import into Fortnox.
//
// DOCUMENT STRUCTURE:
//
//   #FLAGGA 0                          <-- control lines (header block)
//   #PROGRAM "name" "version"
//   #FORMAT PC8
//   #GEN 20250901 "author"
//   #SIETYP 4
//   #FNAMN "company name"
//   #ORGNR 5561234567
//   #RAR 0 20250101 20251231
//   #VER "A" 1 20250105 "description"  <-- one block per voucher
//   {
//       #TRANS 1930 {} 145.50 "20250105" "Bank"
//       #TRANS 6570 {} 4.50 "20250105" "Avgifter"
//       #TRANS 3001 {} -120.00 "20250105" "Försäljning"
//       #TRANS 2611 {} -30.00 "20250105" "Utgående moms"
//   }
//
// Voucher numbers are sequential from 1 in aggregator output order. Every
// monetary value is rendered with exactly 2 fraction digits, a decimal
// point and no thousands separators; credit lines carry a leading minus.
//
// SIE quoting is deliberately simple: a double quote inside free text is
// replaced with a single quote and nothing else is escaped. The consuming
// system depends on exactly this behavior.
//
// The document builder is string-only. Converting to the legacy single-byte
// encoding the format assumes is a separate, explicit Encode step.
//
// =============================================================================

package siewriter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/nordliden/shopify-sie-converter/internal/config"
	"github.com/nordliden/shopify-sie-converter/internal/types"
)

// defaultDescription is the voucher text used when the aggregator supplied
// none (a per-order voucher without an order reference).
const defaultDescription = "Shopify försäljning"

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

// Options contains options for document generation.
type Options struct {
	// ProgramName and ProgramVersion identify the generating program on the
	// #PROGRAM line.
	ProgramName    string
	ProgramVersion string

	// GeneratedAt is the generation timestamp for the #GEN line. The zero
	// value means "now". Only the UTC calendar date is rendered.
	GeneratedAt time.Time
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		ProgramName:    "shopify-sie-converter",
		ProgramVersion: "v1.0.0",
	}
}

// =============================================================================
// DOCUMENT GENERATION
// =============================================================================

// Generate renders the complete SIE document for the vouchers and settings
// using default options.
func Generate(vouchers []types.AggregatedVoucher, settings config.Settings) string {
	return GenerateWithOptions(vouchers, settings, DefaultOptions())
}

// GenerateWithOptions renders the complete SIE document with custom options.
//
// Vouchers are numbered sequentially starting at 1, in the order given;
// the number is positional and never derived from voucher fields.
func GenerateWithOptions(vouchers []types.AggregatedVoucher, settings config.Settings, options Options) string {
	var b strings.Builder

	writeHeader(&b, settings, options)

	for i, voucher := range vouchers {
		writeVoucher(&b, voucher, settings, i+1)
	}

	return b.String()
}

// writeHeader writes the fixed-format control lines.
func writeHeader(b *strings.Builder, settings config.Settings, options Options) {
	generatedAt := options.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	genDate := generatedAt.UTC().Format(types.CanonicalDateLayout)

	author := settings.AuthorName
	if author == "" {
		author = "ShopifyFortnoxConverter"
	}

	fmt.Fprintf(b, "#FLAGGA 0\n")
	fmt.Fprintf(b, "#PROGRAM \"%s\" \"%s\"\n", escapeSIE(options.ProgramName), escapeSIE(options.ProgramVersion))
	fmt.Fprintf(b, "#FORMAT PC8\n")
	fmt.Fprintf(b, "#GEN %s \"%s\"\n", genDate, escapeSIE(author))
	fmt.Fprintf(b, "#SIETYP %d\n", settings.SIEType)
	fmt.Fprintf(b, "#FNAMN \"%s\"\n", escapeSIE(settings.CompanyName))
	fmt.Fprintf(b, "#ORGNR %s\n", escapeSIE(settings.OrgNumber))
	fmt.Fprintf(b, "#RAR 0 %s %s\n", settings.FiscalYearStart, settings.FiscalYearEnd)
}

// writeVoucher writes one #VER block with its four posting lines:
// net to the bank account and fees to the fee account on the debit side,
// ex-VAT sales and output VAT on the credit side. The four lines balance
// because net + fees = gross = (gross - vat) + vat.
func writeVoucher(b *strings.Builder, v types.AggregatedVoucher, settings config.Settings, number int) {
	description := v.Description
	if description == "" {
		description = defaultDescription
	}

	debitBank := v.TotalNet.Round(2)
	debitFees := v.TotalFees.Round(2)
	creditSalesExVat := v.TotalGross.Sub(v.TotalVAT).Round(2)
	creditVat := v.TotalVAT.Round(2)

	fmt.Fprintf(b, "#VER \"%s\" %d %s \"%s\"\n", escapeSIE(settings.VoucherSeries), number, v.Date, escapeSIE(description))
	fmt.Fprintf(b, "{\n")
	writeTransLine(b, settings.Accounts.BankAccount, debitBank, v.Date, "Bank")
	writeTransLine(b, settings.Accounts.FeesAccount, debitFees, v.Date, "Avgifter")
	writeTransLine(b, settings.Accounts.SalesAccount, creditSalesExVat.Neg(), v.Date, "Försäljning")
	writeTransLine(b, settings.Accounts.OutputVATAccount, creditVat.Neg(), v.Date, "Utgående moms")
	fmt.Fprintf(b, "}\n")
}

// writeTransLine writes one #TRANS line. The empty {} is the (unused)
// object list required by the format.
func writeTransLine(b *strings.Builder, account string, amount decimal.Decimal, date, text string) {
	fmt.Fprintf(b, "    #TRANS %s {} %s \"%s\" \"%s\"\n", account, FormatAmount(amount), date, escapeSIE(text))
}

// FormatAmount renders a monetary value with exactly 2 fraction digits,
// decimal point, no thousands separators.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// escapeSIE replaces double quotes with single quotes. This is the only
// escaping the format's consumer tolerates; see the module header.
func escapeSIE(s string) string {
	return strings.ReplaceAll(s, `"`, `'`)
}

// =============================================================================
// OUTPUT ENCODING
// =============================================================================

// Encoding names a supported output byte encoding.
type Encoding string

const (
	// EncodingUTF8 writes the document bytes as-is.
	EncodingUTF8 Encoding = "utf8"

	// EncodingPC8 is IBM code page 437, the encoding the #FORMAT PC8 line
	// declares and the historical default of SIE consumers.
	EncodingPC8 Encoding = "pc8"

	// EncodingCP1252 is Windows-1252, accepted by newer importers.
	EncodingCP1252 Encoding = "cp1252"
)

// Encode converts the generated document to the requested byte encoding.
// Runes with no mapping in the target encoding are substituted rather than
// failing the run.
func Encode(doc string, enc Encoding) ([]byte, error) {
	switch enc {
	case "", EncodingUTF8:
		return []byte(doc), nil
	case EncodingPC8:
		return encodeWith(doc, charmap.CodePage437)
	case EncodingCP1252:
		return encodeWith(doc, charmap.Windows1252)
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}

func encodeWith(doc string, cm *charmap.Charmap) ([]byte, error) {
	encoder := encoding.ReplaceUnsupported(cm.NewEncoder())
	out, err := encoder.Bytes([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return out, nil
}
