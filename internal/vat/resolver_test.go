package vat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordliden/shopify-sie-converter/internal/types"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestApplyBackComputesMissingVAT(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		{PayoutDate: "20250105", Gross: dec("125.00"), Net: dec("125.00")},
	}

	resolved := Apply(entries, dec("25"))
	require.Len(t, resolved, 1)

	// gross 125 at 25% inclusive: ex-VAT sales 100.00, VAT 25.00.
	assert.True(t, dec("25.00").Equal(resolved[0].VAT), "got %s", resolved[0].VAT)
	exVat := resolved[0].Gross.Sub(resolved[0].VAT)
	assert.True(t, dec("100.00").Equal(exVat), "got %s", exVat)
}

func TestApplyKeepsExplicitVAT(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		{PayoutDate: "20250105", Gross: dec("125.00"), VAT: dec("10.00")},
	}

	resolved := Apply(entries, dec("25"))
	assert.True(t, dec("10.00").Equal(resolved[0].VAT))
}

func TestApplyZeroRate(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		{PayoutDate: "20250105", Gross: dec("125.00")},
	}

	resolved := Apply(entries, decimal.Zero)
	assert.True(t, resolved[0].VAT.IsZero())
}

func TestApplyRoundsToCents(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		{PayoutDate: "20250105", Gross: dec("99.99")},
	}

	resolved := Apply(entries, dec("25"))

	// 99.99 / 1.25 = 79.992; VAT = 19.998 -> 20.00 at the cent.
	assert.True(t, dec("20.00").Equal(resolved[0].VAT), "got %s", resolved[0].VAT)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	entries := []types.NormalizedEntry{
		{PayoutDate: "20250105", Gross: dec("125.00")},
	}

	_ = Apply(entries, dec("25"))
	assert.True(t, entries[0].VAT.IsZero(), "input slice must stay untouched")
}
