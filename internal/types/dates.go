// =============================================================================
// Shopify to SIE Converter - Date Canonicalization
// =============================================================================
//
// All date handling in the converter is pinned to the UTC calendar. The SIE
// format and the payout export both identify days, not instants, and a
// locale- or zone-sensitive parse can silently shift a posting to the wrong
// day. Every date that enters the pipeline is reduced to the canonical
// 8-digit YYYYMMDD form here, and the canonical form is used both for
// rendering and for ordering (lexicographic order on YYYYMMDD is
// chronological order).
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
	"time"
)

// CanonicalDateLayout is the 8-digit year-month-day form used throughout.
const CanonicalDateLayout = "20060102"

// dateLayouts are the accepted input forms, tried in order. Layouts without
// a zone are interpreted as UTC; layouts with a zone are converted to UTC
// before the calendar fields are read.
var dateLayouts = []string{
	CanonicalDateLayout,
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// CanonicalDate converts any accepted date-like text to YYYYMMDD using UTC
// calendar fields. It returns an error when the text matches none of the
// accepted forms.
func CanonicalDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty date")
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC().Format(CanonicalDateLayout), nil
		}
	}

	return "", fmt.Errorf("unrecognized date %q", s)
}

// TodayYMD returns the current UTC date in canonical form.
func TodayYMD() string {
	return time.Now().UTC().Format(CanonicalDateLayout)
}

// FormatISO renders a canonical YYYYMMDD date as YYYY-MM-DD for
// human-readable texts. Input that is not 8 digits is returned unchanged.
func FormatISO(ymd string) string {
	if len(ymd) != 8 {
		return ymd
	}
	return ymd[0:4] + "-" + ymd[4:6] + "-" + ymd[6:8]
}
