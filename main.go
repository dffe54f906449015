// =============================================================================
// Shopify to SIE Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Shopify to SIE Converter CLI. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   sieconv generate <export>  - Convert a payout export to an SIE file
//   sieconv validate           - Validate the settings file without generating
//   sieconv report <export>    - Render a voucher summary PDF
//   sieconv version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core pipeline (parse, normalize, VAT, aggregate, write)
//   - pkg/       : shared utilities
//
// =============================================================================

package main

import (
	"github.com/nordliden/shopify-sie-converter/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
