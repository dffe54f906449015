package normalizer

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordliden/shopify-sie-converter/internal/csvparser"
)

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// parse builds ExportData from CSV text, failing the test on parse errors.
func parse(t *testing.T, text string) *csvparser.ExportData {
	t.Helper()

	data, err := csvparser.ParseString(text)
	require.NoError(t, err)
	return data
}

// dec parses a decimal literal.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ---------------------------------------------------------------------------
// Normalization tests
// ---------------------------------------------------------------------------

func TestNormalizeBasicRow(t *testing.T) {
	t.Parallel()

	data := parse(t, `Transaction Date,Type,Order,Payout Date,Amount,Fee,Net,VAT
2025-01-03,charge,#1082,2025-01-05,100,3,97,0
`)

	entries, stats, err := Normalize(data, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "20250105", e.PayoutDate)
	assert.True(t, dec("100").Equal(e.Gross))
	assert.True(t, dec("3").Equal(e.Fee))
	assert.True(t, dec("97").Equal(e.Net))
	assert.True(t, e.VAT.IsZero())
	assert.Equal(t, "#1082", e.OrderID)

	assert.Equal(t, 1, stats.RowsRead)
	assert.Equal(t, 0, stats.RowsSkipped)
	assert.Equal(t, 1, stats.Entries)
}

func TestNormalizeSkipsRowsWithoutPayoutDate(t *testing.T) {
	t.Parallel()

	data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100,3,97
2025-01-04,charge,,50,1.5,48.5
`)

	entries, stats, err := Normalize(data, Options{})
	require.NoError(t, err)

	assert.Len(t, entries, 1)
	assert.Equal(t, 2, stats.RowsRead)
	assert.Equal(t, 1, stats.RowsSkipped)
}

func TestNormalizeDateIsTimeZoneIndependent(t *testing.T) {
	t.Parallel()

	data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-10-01,charge,2025-10-03,10,0,10
2025-10-01,charge,2025-10-03T00:00:00Z,10,0,10
`)

	entries, _, err := Normalize(data, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Both spellings of the same settlement day normalize identically,
	// regardless of the local execution time zone.
	assert.Equal(t, "20251003", entries[0].PayoutDate)
	assert.Equal(t, "20251003", entries[1].PayoutDate)
}

func TestNormalizeNetReconciliation(t *testing.T) {
	t.Parallel()

	t.Run("empty net falls back to gross minus fee", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100,3,
`)

		entries, _, err := Normalize(data, Options{})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, dec("97").Equal(entries[0].Net))
	})

	t.Run("zero net falls back to gross minus fee", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100,3,0
`)

		entries, _, err := Normalize(data, Options{})
		require.NoError(t, err)
		assert.True(t, dec("97").Equal(entries[0].Net))
	})

	t.Run("non-zero source net wins over the computed value", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100,3,96.90
`)

		entries, _, err := Normalize(data, Options{})
		require.NoError(t, err)
		assert.True(t, dec("96.90").Equal(entries[0].Net))
	})
}

func TestNormalizeFeeSignIsDropped(t *testing.T) {
	t.Parallel()

	data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100,-3,
`)

	entries, _, err := Normalize(data, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.True(t, dec("3").Equal(entries[0].Fee))
	assert.True(t, dec("97").Equal(entries[0].Net))
}

func TestNormalizeVATHandling(t *testing.T) {
	t.Parallel()

	t.Run("positive VAT is taken verbatim", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net,VAT
2025-01-03,charge,2025-01-05,125,0,125,25
`)

		entries, _, err := Normalize(data, Options{})
		require.NoError(t, err)
		assert.True(t, dec("25").Equal(entries[0].VAT))
	})

	t.Run("negative VAT is treated as missing", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net,VAT
2025-01-03,charge,2025-01-05,125,0,125,-1
`)

		entries, _, err := Normalize(data, Options{})
		require.NoError(t, err)
		assert.True(t, entries[0].VAT.IsZero())
	})
}

func TestNormalizeLenientCoercion(t *testing.T) {
	t.Parallel()

	data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,not-a-number,3,
`)

	entries, _, err := Normalize(data, Options{})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Malformed amount degrades to zero; net becomes 0 - 3 = -3.00.
	assert.True(t, entries[0].Gross.IsZero())
	assert.True(t, dec("-3").Equal(entries[0].Net))
}

func TestNormalizeStrictMode(t *testing.T) {
	t.Parallel()

	t.Run("malformed amount becomes a diagnostic", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,not-a-number,3,97
`)

		_, _, err := Normalize(data, Options{Strict: true})
		require.Error(t, err)

		var strictErr *StrictError
		require.True(t, errors.As(err, &strictErr))
		require.Len(t, strictErr.Diagnostics, 1)
		assert.Equal(t, 1, strictErr.Diagnostics[0].Row)
		assert.Equal(t, csvparser.ColAmount, strictErr.Diagnostics[0].Column)
	})

	t.Run("unparseable payout date becomes a diagnostic", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,someday,100,3,97
`)

		_, _, err := Normalize(data, Options{Strict: true})
		var strictErr *StrictError
		require.True(t, errors.As(err, &strictErr))
		assert.Equal(t, csvparser.ColPayoutDate, strictErr.Diagnostics[0].Column)
	})

	t.Run("clean input passes", func(t *testing.T) {
		t.Parallel()

		data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100,3,97
`)

		entries, _, err := Normalize(data, Options{Strict: true})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestNormalizeNetConsistencyInvariant(t *testing.T) {
	t.Parallel()

	data := parse(t, `Transaction Date,Type,Payout Date,Amount,Fee,Net
2025-01-03,charge,2025-01-05,100.005,3.001,
2025-01-04,charge,2025-01-05,49.999,1.499,
`)

	entries, _, err := Normalize(data, Options{})
	require.NoError(t, err)

	for _, e := range entries {
		// Whenever the source net was empty, round2(net) equals
		// round2(gross - fee).
		assert.True(t, e.Net.Round(2).Equal(e.Gross.Sub(e.Fee).Round(2)))
	}
}
