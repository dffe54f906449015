// =============================================================================
// Shopify to SIE Converter - VAT Resolver Module
// =============================================================================
//
// The payout export often carries a VAT column that is zero even for taxed
// sales. This module fills in the missing tax by back-computing it from the
// VAT-inclusive gross amount and a single flat rate:
//
//   exVat = gross / (1 + rate/100)
//   vat   = round2(gross - exVat)
//
// Entries that already carry a positive VAT pass through unchanged; the
// export is authoritative when it does supply the tax. The flat-rate
// assumption deliberately does not model zero-rated or mixed-rate sales.
//
// =============================================================================

package vat

import (
	"github.com/shopspring/decimal"

	"github.com/nordliden/shopify-sie-converter/internal/types"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Apply returns a copy of entries in which every entry whose gross amount
// implies a tax portion has a VAT amount. The input slice is not mutated.
func Apply(entries []types.NormalizedEntry, ratePercent decimal.Decimal) []types.NormalizedEntry {
	out := make([]types.NormalizedEntry, len(entries))

	divisor := one.Add(ratePercent.Div(hundred))

	for i, e := range entries {
		if e.VAT.Sign() > 0 {
			// Explicit VAT from the export is authoritative.
			out[i] = e
			continue
		}

		exVat := e.Gross.Div(divisor)
		e.VAT = e.Gross.Sub(exVat).Round(2)
		out[i] = e
	}

	return out
}
