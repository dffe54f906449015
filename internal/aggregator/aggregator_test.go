package aggregator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordliden/shopify-sie-converter/internal/types"
)

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// entry builds a normalized entry from decimal literals.
func entry(date, gross, vatAmt, fee, net, orderID string) types.NormalizedEntry {
	return types.NormalizedEntry{
		PayoutDate: date,
		Gross:      dec(gross),
		VAT:        dec(vatAmt),
		Fee:        dec(fee),
		Net:        dec(net),
		OrderID:    orderID,
	}
}

// ---------------------------------------------------------------------------
// Per-order policy
// ---------------------------------------------------------------------------

func TestAggregatePerOrder(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		entry("20250107", "100", "20", "3", "97", "#1082"),
		entry("20250105", "50", "10", "1.5", "48.5", ""),
	}

	vouchers, err := Aggregate(entries, types.GroupingPerOrder)
	require.NoError(t, err)

	// Entry count is preserved and input order is kept: no resorting.
	require.Len(t, vouchers, 2)
	assert.Equal(t, "20250107", vouchers[0].Date)
	assert.Equal(t, "20250105", vouchers[1].Date)

	assert.Equal(t, "Shopify beställning #1082", vouchers[0].Description)
	assert.Equal(t, "", vouchers[1].Description)

	assert.True(t, dec("100.00").Equal(vouchers[0].TotalGross))
	assert.True(t, dec("20.00").Equal(vouchers[0].TotalVAT))
	assert.True(t, dec("3.00").Equal(vouchers[0].TotalFees))
	assert.True(t, dec("97.00").Equal(vouchers[0].TotalNet))

	// Order count stays unset for per-order vouchers.
	assert.Equal(t, 0, vouchers[0].OrderCount)
}

// ---------------------------------------------------------------------------
// Per-payout-date policy
// ---------------------------------------------------------------------------

func TestAggregateByPayoutDate(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		entry("20250105", "100", "20", "3", "97", "#1082"),
		entry("20250105", "50", "10", "1.5", "48.5", "#1083"),
		entry("20250103", "10", "2", "0.3", "9.7", "#1081"),
	}

	vouchers, err := Aggregate(entries, types.GroupingPayoutDate)
	require.NoError(t, err)
	require.Len(t, vouchers, 2)

	// Sorted ascending by canonical date.
	assert.Equal(t, "20250103", vouchers[0].Date)
	assert.Equal(t, "20250105", vouchers[1].Date)

	v := vouchers[1]
	assert.True(t, dec("150.00").Equal(v.TotalGross), "gross %s", v.TotalGross)
	assert.True(t, dec("30.00").Equal(v.TotalVAT), "vat %s", v.TotalVAT)
	assert.True(t, dec("4.50").Equal(v.TotalFees), "fees %s", v.TotalFees)
	assert.True(t, dec("145.50").Equal(v.TotalNet), "net %s", v.TotalNet)
	assert.Equal(t, 2, v.OrderCount)
	assert.Equal(t, "Shopify beställningar 2025-01-05", v.Description)
}

func TestAggregateByPayoutDateIsOrderIndependent(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		entry("20250105", "100", "20", "3", "97", "a"),
		entry("20250103", "10", "2", "0.3", "9.7", "b"),
		entry("20250105", "50", "10", "1.5", "48.5", "c"),
		entry("20250103", "40", "8", "1.2", "38.8", "d"),
	}

	shuffled := []types.NormalizedEntry{entries[3], entries[0], entries[2], entries[1]}

	want, err := Aggregate(entries, types.GroupingPayoutDate)
	require.NoError(t, err)
	got, err := Aggregate(shuffled, types.GroupingPayoutDate)
	require.NoError(t, err)

	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].Date, got[i].Date)
		assert.True(t, want[i].TotalGross.Equal(got[i].TotalGross))
		assert.True(t, want[i].TotalVAT.Equal(got[i].TotalVAT))
		assert.True(t, want[i].TotalFees.Equal(got[i].TotalFees))
		assert.True(t, want[i].TotalNet.Equal(got[i].TotalNet))
		assert.Equal(t, want[i].OrderCount, got[i].OrderCount)
	}
}

func TestAggregateRoundsOnlyAtEmission(t *testing.T) {
	t.Parallel()

	// Three thirds of a cent each: rounding per entry first would give 0.00
	// in total; rounding the exact sum gives 0.01.
	entries := []types.NormalizedEntry{
		entry("20250105", "0.003", "0", "0", "0.003", ""),
		entry("20250105", "0.003", "0", "0", "0.003", ""),
		entry("20250105", "0.003", "0", "0", "0.003", ""),
	}

	vouchers, err := Aggregate(entries, types.GroupingPayoutDate)
	require.NoError(t, err)
	require.Len(t, vouchers, 1)
	assert.True(t, dec("0.01").Equal(vouchers[0].TotalGross), "gross %s", vouchers[0].TotalGross)
}

func TestAggregateUnknownPolicy(t *testing.T) {
	t.Parallel()

	_, err := Aggregate(nil, types.Grouping("singleVoucher"))
	require.Error(t, err)
}
