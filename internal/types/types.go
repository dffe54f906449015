// =============================================================================
// Shopify to SIE Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - normalizer
//   - vat
//   - aggregator
//   - siewriter
//
// All monetary amounts are decimal values (shopspring/decimal); float64 is
// never used for money anywhere in the pipeline.
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// GROUPING POLICY
// =============================================================================

// Grouping selects how normalized entries are folded into vouchers.
// It is a closed enum: exactly two policies exist and the aggregator
// dispatches on them with a switch.
type Grouping string

const (
	// GroupingPerOrder emits one voucher per normalized entry, in input order.
	GroupingPerOrder Grouping = "perOrder"

	// GroupingPayoutDate sums entries by payout date and emits one voucher
	// per distinct date, sorted ascending.
	GroupingPayoutDate Grouping = "payoutDate"
)

// Valid reports whether g is one of the two supported policies.
func (g Grouping) Valid() bool {
	return g == GroupingPerOrder || g == GroupingPayoutDate
}

// =============================================================================
// NORMALIZED ENTRY
// =============================================================================

// NormalizedEntry is the canonical post-parse unit: one settled transaction
// from the payout export with resolved date and amounts. Entries are value
// objects; every pipeline stage returns a new slice rather than mutating
// its input.
type NormalizedEntry struct {
	// PayoutDate is the settlement date in canonical YYYYMMDD form.
	// Rows without a payout date never become entries.
	PayoutDate string

	// Gross is the VAT-inclusive transaction amount, signed.
	Gross decimal.Decimal

	// VAT is the tax portion of Gross. Zero means "not supplied by the
	// export"; the VAT resolver back-computes it from Gross and the
	// configured rate.
	VAT decimal.Decimal

	// Fee is the processor fee as a non-negative magnitude. The sign in the
	// export carries no meaning; fees are a deduction in all cases.
	Fee decimal.Decimal

	// Net is Gross minus Fee, unless the export supplied a non-zero net of
	// its own, in which case the export value wins.
	Net decimal.Decimal

	// OrderID is the optional order reference (e.g. "#1082").
	OrderID string
}

// =============================================================================
// AGGREGATED VOUCHER
// =============================================================================

// AggregatedVoucher is one ledger voucher before numbering. Voucher numbers
// are positional and assigned by the serializer, never derived from entry
// fields.
type AggregatedVoucher struct {
	// Date is the posting date in canonical YYYYMMDD form.
	Date string

	// TotalGross, TotalVAT, TotalFees and TotalNet are the voucher totals,
	// each rounded to 2 fraction digits at emission.
	TotalGross decimal.Decimal
	TotalVAT   decimal.Decimal
	TotalFees  decimal.Decimal
	TotalNet   decimal.Decimal

	// OrderCount is the number of contributing entries. It is set only for
	// date-grouped vouchers; per-order vouchers leave it zero (implicitly 1).
	OrderCount int

	// Description is the human-readable voucher text. It may be empty for
	// per-order vouchers without an order reference; the serializer falls
	// back to a default text.
	Description string
}
