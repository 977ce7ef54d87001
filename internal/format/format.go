// Package format holds the display formatting rules shared by every report
// template: rupee amounts, report dates, and the placeholder glyph used for
// absent values.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is rendered wherever an optional field has no value. Templates
// must never show an empty cell or "Invalid Date".
const Placeholder = "—"

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// INR formats an amount as rupees with Indian digit grouping and no decimals.
// A zero amount is treated as absent.
func INR(amount float64) string {
	if amount <= 0 {
		return Placeholder
	}
	return "₹" + inrPrinter.Sprint(number.Decimal(amount, number.MaxFractionDigits(0)))
}

// Date renders a day-month(abbr)-year date.
func Date(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format("02 Jan 2006")
}

// DatePtr renders an optional date.
func DatePtr(t *time.Time) string {
	if t == nil {
		return Placeholder
	}
	return Date(*t)
}

// Text trims a free-text value, substituting the placeholder when empty.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Placeholder
	}
	return s
}
