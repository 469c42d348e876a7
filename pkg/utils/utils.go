package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateOnly truncates a timestamp to midnight UTC. Rule evaluation compares
// calendar dates, never times of day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from 'from' to 'to'.
// Negative when 'to' precedes 'from'.
func DaysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)).Hours() / 24)
}

// FormatAmount renders a monetary amount with thousands separators and two
// decimal places, e.g. 250000 -> "250,000.00".
func FormatAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-3:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String() + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatDate renders a date as YYYY-MM-DD for alert messages and emails.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
