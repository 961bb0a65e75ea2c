// Package normalize provides the canonical forms used for matching and
// storage: digits-only phone numbers, lowercased emails, coerced booleans,
// and the lenient service-date parser.
//
// All functions are pure and total; bad input degrades to a zero value
// rather than an error.
package normalize

import (
	"strings"
	"time"
	"unicode"
)

// MaxPhoneDigits caps normalized phone length for international safety.
const MaxPhoneDigits = 15

// TimestampLayout is the storage rendering for audit timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the storage rendering for date-only fields.
const DateLayout = "2006-01-02"

// Phone strips everything but digits and caps the result at MaxPhoneDigits.
//
//	Phone("(716) 555-1234") == "7165551234"
func Phone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
			if b.Len() == MaxPhoneDigits {
				break
			}
		}
	}
	return b.String()
}

// Email trims whitespace and lowercases. Idempotent.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Bool converts common truthy spreadsheet values to a boolean.
// Accepts true/yes/y/1/on in any case; everything else is false.
func Bool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1", "on":
		return true
	}
	return false
}

// FormatBool renders a boolean the way the workbook stores it.
func FormatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// Timestamp renders t in the workbook's timestamp format.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ServiceDate parses a service date in YYYY-MM-DD or DD/MM/YYYY form.
// Anything else falls back to now; ok reports whether raw actually parsed,
// so callers can log the fallback.
func ServiceDate(raw string, now time.Time) (t time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return t, true
	}
	return now, false
}

// State uppercases a US state abbreviation.
func State(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
