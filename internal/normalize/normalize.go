// =============================================================================
// PO Decoder - Value Normalization
// =============================================================================
//
// This package turns loosely formatted source values into canonical ones:
//   - Date:    arbitrary date text -> "YYYY-MM-DD" or nil
//   - X12Date: X12 CCYYMMDD / YYMMDD date elements -> "YYYY-MM-DD"
//   - Number:  numeric text -> float64, 0 on failure
//   - Int:     integer text -> int, 0 on failure
//
// None of these functions return errors or panic. Partner data is imperfect
// and a defaulted field is preferred over a rejected order.
//
// =============================================================================

package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// isoDate matches text that is already in canonical form.
var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// canonicalLayout is the output layout of every date function.
const canonicalLayout = "2006-01-02"

// dateLayouts are tried in order when the text is not already canonical.
//
// Only space-free layouts are listed: Date cuts the text at the first space
// before parsing. US month-first layouts win over day-first ones.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"20060102",
	"2006/01/02",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"1-2-2006",
	"02-Jan-2006",
	"02-Jan-06",
	"2-Jan-2006",
	"Jan-02-2006",
	"2006-Jan-02",
}

// =============================================================================
// DATES
// =============================================================================

// Date normalizes arbitrary date text.
//
// RULES (in order):
//  1. Empty text yields nil.
//  2. Anything after the first space is dropped ("2025-12-30 02:33:33").
//  3. Text already in YYYY-MM-DD form is returned unchanged.
//  4. Otherwise each known layout is tried; the first match is formatted
//     as YYYY-MM-DD.
//  5. Unparseable text yields nil.
func Date(text string) *string {
	value := strings.TrimSpace(text)
	if value == "" {
		return nil
	}
	if i := strings.IndexByte(value, ' '); i >= 0 {
		value = value[:i]
	}
	if isoDate.MatchString(value) {
		return &value
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			formatted := t.Format(canonicalLayout)
			return &formatted
		}
	}
	return nil
}

// X12Date coerces an X12 date element.
//
// RULES:
//   - 8 digits are CCYYMMDD.
//   - 6 digits are YYMMDD. A two-digit year above 50 is in the 1900s,
//     anything else in the 2000s.
//   - Any other non-empty text is passed through unchanged.
//   - Empty text yields nil.
//
// Digit strings that do not form a calendar date (e.g. month 13) are passed
// through unchanged as well.
func X12Date(text string) *string {
	value := strings.TrimSpace(text)
	if value == "" {
		return nil
	}
	if !isDigits(value) {
		return &value
	}

	var full string
	switch len(value) {
	case 8:
		full = value
	case 6:
		yy, _ := strconv.Atoi(value[:2])
		century := "20"
		if yy > 50 {
			century = "19"
		}
		full = century + value
	default:
		return &value
	}

	t, err := time.Parse("20060102", full)
	if err != nil {
		return &value
	}
	formatted := t.Format(canonicalLayout)
	return &formatted
}

// =============================================================================
// NUMBERS
// =============================================================================

// Number parses numeric text leniently. Surrounding whitespace, thousands
// separators and a leading currency sign are ignored. Anything that still
// fails to parse yields 0.
func Number(text string) float64 {
	value := cleanNumber(text)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Int parses integer text leniently; failures yield 0. A decimal value is
// truncated toward zero ("12.0" -> 12).
func Int(text string) int {
	value := cleanNumber(text)
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// IsNumeric reports whether the text parses as a number after cleanup.
func IsNumeric(text string) bool {
	value := cleanNumber(text)
	if value == "" {
		return false
	}
	f, err := strconv.ParseFloat(value, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NumberPtr is Number for optional fields: empty or unparseable text yields nil.
func NumberPtr(text string) *float64 {
	if !IsNumeric(text) {
		return nil
	}
	f := Number(text)
	return &f
}

func cleanNumber(text string) string {
	value := strings.TrimSpace(text)
	value = strings.TrimPrefix(value, "$")
	return strings.ReplaceAll(value, ",", "")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
