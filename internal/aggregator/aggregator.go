// =============================================================================
// Shopify to SIE Converter - Voucher Aggregator Module
// =============================================================================
//
// This module folds normalized (and VAT-resolved) entries into ledger
// vouchers under one of two grouping policies:
//
//   - per order: one voucher per entry, in input order.
//   - per payout date: one voucher per distinct settlement date, totals
//     summed over the contributing entries, output sorted ascending by date.
//
// Summation accumulates exact decimal values and rounds each total only at
// voucher emission, so per-entry rounding never drifts the voucher totals.
//
// =============================================================================

package aggregator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nordliden/shopify-sie-converter/internal/types"
)

// Aggregate produces the ordered voucher sequence for the given policy.
func Aggregate(entries []types.NormalizedEntry, grouping types.Grouping) ([]types.AggregatedVoucher, error) {
	switch grouping {
	case types.GroupingPerOrder:
		return perOrder(entries), nil
	case types.GroupingPayoutDate:
		return byPayoutDate(entries), nil
	default:
		return nil, fmt.Errorf("unsupported grouping policy %q", grouping)
	}
}

// perOrder emits one voucher per entry. Input order is preserved and the
// order count is left unset (a single entry is implied).
func perOrder(entries []types.NormalizedEntry) []types.AggregatedVoucher {
	vouchers := make([]types.AggregatedVoucher, 0, len(entries))

	for _, e := range entries {
		description := ""
		if e.OrderID != "" {
			description = "Shopify beställning " + e.OrderID
		}

		vouchers = append(vouchers, types.AggregatedVoucher{
			Date:        e.PayoutDate,
			TotalGross:  e.Gross.Round(2),
			TotalVAT:    e.VAT.Round(2),
			TotalFees:   e.Fee.Round(2),
			TotalNet:    e.Net.Round(2),
			Description: description,
		})
	}

	return vouchers
}

// dateTotals is the running accumulator for one payout date.
type dateTotals struct {
	gross decimal.Decimal
	vat   decimal.Decimal
	fees  decimal.Decimal
	net   decimal.Decimal
	count int
}

// byPayoutDate sums entries per settlement date and emits one voucher per
// distinct date, sorted ascending by the canonical date string.
func byPayoutDate(entries []types.NormalizedEntry) []types.AggregatedVoucher {
	byDate := make(map[string]*dateTotals)

	for _, e := range entries {
		totals, ok := byDate[e.PayoutDate]
		if !ok {
			totals = &dateTotals{}
			byDate[e.PayoutDate] = totals
		}
		totals.gross = totals.gross.Add(e.Gross)
		totals.vat = totals.vat.Add(e.VAT)
		totals.fees = totals.fees.Add(e.Fee)
		totals.net = totals.net.Add(e.Net)
		totals.count++
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	// Lexicographic order on YYYYMMDD is chronological order.
	sort.Strings(dates)

	vouchers := make([]types.AggregatedVoucher, 0, len(dates))
	for _, date := range dates {
		totals := byDate[date]
		vouchers = append(vouchers, types.AggregatedVoucher{
			Date:        date,
			TotalGross:  totals.gross.Round(2),
			TotalVAT:    totals.vat.Round(2),
			TotalFees:   totals.fees.Round(2),
			TotalNet:    totals.net.Round(2),
			OrderCount:  totals.count,
			Description: "Shopify beställningar " + types.FormatISO(date),
		})
	}

	return vouchers
}
