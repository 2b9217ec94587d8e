package ledger

import (
	"math"
	"time"
)

// MinorUnitsPerMajor is the scale between a major currency unit and its
// minor unit (e.g. rubles to kopecks, dollars to cents).
const MinorUnitsPerMajor = 100

// MinorUnits converts an amount given in major units to an integer amount
// of minor units, rounding to the nearest minor unit. All stored amounts
// and all arithmetic downstream are integers.
func MinorUnits(major float64) int64 {
	return int64(math.Round(major * MinorUnitsPerMajor))
}

// MajorUnits converts minor units back to major units for display.
func MajorUnits(minor int64) float64 {
	return float64(minor) / MinorUnitsPerMajor
}

// ValidCurrency reports whether code is a 3-letter uppercase currency code.
// The engine never converts between currencies, it only tags amounts.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

const naiveTimestampLayout = "2006-01-02T15:04:05"

var occurredAtLayouts = []string{
	time.RFC3339,
	naiveTimestampLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseOccurredAt parses a client-supplied timestamp. Timestamps without a
// zone are interpreted in the server's local zone, so the wall-clock time
// the user typed is preserved instead of being reinterpreted as UTC.
func ParseOccurredAt(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range occurredAtLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// SameDay reports whether both timestamps fall on the same calendar date,
// ignoring the time of day. Used by the loan payment matcher.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
