// =============================================================================
// Shopify to SIE Converter - Configuration Module
// =============================================================================
//
// This module loads and validates the converter settings. Settings are an
// immutable value passed explicitly into the pipeline on each invocation;
// there is no settings singleton anywhere in the converter.
//
// SETTINGS FILE (YAML):
//
//   company_name: "Acme Handel AB"
//   org_number: "5561234567"
//   fiscal_year_start: "2025-01-01"   # or 20250101
//   fiscal_year_end: "2025-12-31"
//   voucher_series: "A"
//   vat_rate_percent: 25
//   grouping: payoutDate              # or perOrder
//   accounts:
//     bank_account: "1930"
//     sales_account: "3001"
//     output_vat_account: "2611"
//     fees_account: "6570"
//     input_vat_account: "2641"       # reserved, not posted against
//
// Validation is a precondition contract: generation refuses to run when
// ValidateForGeneration fails, instead of emitting a structurally valid but
// financially meaningless document.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/nordliden/shopify-sie-converter/internal/types"
)

// SIETypeSupported is the only ledger-format version the converter emits.
const SIETypeSupported = 4

// =============================================================================
// SETTINGS STRUCTURES
// =============================================================================

// AccountMapping is the fixed set of ledger account codes every generated
// voucher posts against.
type AccountMapping struct {
	// BankAccount is the bank/clearing account debited with the net payout.
	BankAccount string `yaml:"bank_account"`

	// SalesAccount is credited with the ex-VAT sales amount.
	SalesAccount string `yaml:"sales_account"`

	// OutputVATAccount is credited with the output VAT.
	OutputVATAccount string `yaml:"output_vat_account"`

	// FeesAccount is debited with the processor fees.
	FeesAccount string `yaml:"fees_account"`

	// InputVATAccount is reserved for a future feature and never posted
	// against. It is carried so settings files round-trip.
	InputVATAccount string `yaml:"input_vat_account,omitempty"`
}

// Settings holds everything one conversion run needs besides the export
// itself.
type Settings struct {
	// CompanyName is the organization name for the #FNAMN header line.
	CompanyName string `yaml:"company_name"`

	// OrgNumber is the organization registration number (#ORGNR).
	OrgNumber string `yaml:"org_number"`

	// FiscalYearStart and FiscalYearEnd bound the fiscal period (#RAR).
	// Accepted as YYYYMMDD or YYYY-MM-DD; canonicalized to YYYYMMDD on load.
	FiscalYearStart string `yaml:"fiscal_year_start"`
	FiscalYearEnd   string `yaml:"fiscal_year_end"`

	// AuthorName is the generating-identity text on the #GEN line.
	AuthorName string `yaml:"author_name"`

	// SIEType is the ledger format version. Only type 4 is supported.
	SIEType int `yaml:"sie_type"`

	// VoucherSeries is the series code vouchers are numbered within.
	VoucherSeries string `yaml:"voucher_series"`

	// VATRatePercent is the flat VAT rate used to back-compute missing tax.
	VATRatePercent float64 `yaml:"vat_rate_percent"`

	// Grouping selects the voucher grouping policy.
	Grouping types.Grouping `yaml:"grouping"`

	// Accounts is the ledger account mapping.
	Accounts AccountMapping `yaml:"accounts"`
}

// VATRate returns the rate as a decimal for the VAT resolver.
func (s Settings) VATRate() decimal.Decimal {
	return decimal.NewFromFloat(s.VATRatePercent)
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the settings a fresh installation starts from: Swedish
// BAS accounts, 25% VAT, series A, fiscal year = current calendar year.
// Company identity is intentionally left empty; ValidateForGeneration
// requires the user to supply it.
func Default() Settings {
	year := time.Now().UTC().Year()

	return Settings{
		FiscalYearStart: fmt.Sprintf("%d0101", year),
		FiscalYearEnd:   fmt.Sprintf("%d1231", year),
		AuthorName:      "ShopifyFortnoxConverter",
		SIEType:         SIETypeSupported,
		VoucherSeries:   "A",
		VATRatePercent:  25,
		Grouping:        types.GroupingPerOrder,
		Accounts: AccountMapping{
			BankAccount:      "1930",
			SalesAccount:     "3001",
			OutputVATAccount: "2611",
			FeesAccount:      "6570",
		},
	}
}

// applyDefaults fills unset fields with the defaults above. The VAT rate is
// deliberately not defaulted here: zero is a legitimate configured rate and
// cannot be told apart from an omitted field once unmarshalled.
func applyDefaults(s *Settings) {
	defaults := Default()

	if s.FiscalYearStart == "" {
		s.FiscalYearStart = defaults.FiscalYearStart
	}
	if s.FiscalYearEnd == "" {
		s.FiscalYearEnd = defaults.FiscalYearEnd
	}
	if s.AuthorName == "" {
		s.AuthorName = defaults.AuthorName
	}
	if s.SIEType == 0 {
		s.SIEType = defaults.SIEType
	}
	if s.VoucherSeries == "" {
		s.VoucherSeries = defaults.VoucherSeries
	}
	if s.Grouping == "" {
		s.Grouping = defaults.Grouping
	}
	if s.Accounts.BankAccount == "" {
		s.Accounts.BankAccount = defaults.Accounts.BankAccount
	}
	if s.Accounts.SalesAccount == "" {
		s.Accounts.SalesAccount = defaults.Accounts.SalesAccount
	}
	if s.Accounts.OutputVATAccount == "" {
		s.Accounts.OutputVATAccount = defaults.Accounts.OutputVATAccount
	}
	if s.Accounts.FeesAccount == "" {
		s.Accounts.FeesAccount = defaults.Accounts.FeesAccount
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a settings file, applies defaults and canonicalizes the fiscal
// dates. It does not run the generation precondition; callers decide when to
// enforce that (see ValidateForGeneration).
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	return Parse(data)
}

// Parse unmarshals settings from YAML bytes, applies defaults and
// canonicalizes the fiscal dates.
func Parse(data []byte) (Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}

	applyDefaults(&s)

	start, err := types.CanonicalDate(s.FiscalYearStart)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid fiscal_year_start: %w", err)
	}
	end, err := types.CanonicalDate(s.FiscalYearEnd)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid fiscal_year_end: %w", err)
	}
	s.FiscalYearStart = start
	s.FiscalYearEnd = end

	return s, nil
}

// =============================================================================
// GENERATION PRECONDITION
// =============================================================================

// ValidationError lists everything that must be fixed before a ledger file
// can be generated from these settings.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("settings not ready for generation: %s", strings.Join(e.Problems, "; "))
}

// ValidateForGeneration checks the precondition contract for generating a
// ledger file. It returns a *ValidationError naming every problem, or nil
// when the settings are complete.
func (s Settings) ValidateForGeneration() error {
	var problems []string

	if strings.TrimSpace(s.CompanyName) == "" {
		problems = append(problems, "company_name is required")
	}
	if strings.TrimSpace(s.OrgNumber) == "" {
		problems = append(problems, "org_number is required")
	}
	if strings.TrimSpace(s.VoucherSeries) == "" {
		problems = append(problems, "voucher_series is required")
	}
	if s.SIEType != SIETypeSupported {
		problems = append(problems, fmt.Sprintf("sie_type must be %d", SIETypeSupported))
	}
	if s.VATRatePercent < 0 {
		problems = append(problems, "vat_rate_percent must be >= 0")
	}
	if !s.Grouping.Valid() {
		problems = append(problems, fmt.Sprintf("grouping must be %q or %q", types.GroupingPerOrder, types.GroupingPayoutDate))
	}

	if len(s.FiscalYearStart) != 8 {
		problems = append(problems, "fiscal_year_start is required")
	}
	if len(s.FiscalYearEnd) != 8 {
		problems = append(problems, "fiscal_year_end is required")
	}
	if len(s.FiscalYearStart) == 8 && len(s.FiscalYearEnd) == 8 && s.FiscalYearStart > s.FiscalYearEnd {
		problems = append(problems, "fiscal_year_start must not be after fiscal_year_end")
	}

	required := []struct {
		name  string
		value string
	}{
		{"accounts.bank_account", s.Accounts.BankAccount},
		{"accounts.sales_account", s.Accounts.SalesAccount},
		{"accounts.output_vat_account", s.Accounts.OutputVATAccount},
		{"accounts.fees_account", s.Accounts.FeesAccount},
	}
	for _, acc := range required {
		if strings.TrimSpace(acc.value) == "" {
			problems = append(problems, acc.name+" is required")
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}

	return nil
}
