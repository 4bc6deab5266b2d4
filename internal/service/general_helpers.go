package service

import (
	"fmt"
	"strings"
	"time"
)

// normalizeSymbol trims and upper-cases a ticker symbol so lookups in the
// static price table and the quote provider agree on one spelling.
//
// Example:
//
//	normalizeSymbol(" aapl ")  // returns "AAPL"
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// relativeAge renders how long ago t was, relative to now.
//
// Returns:
//   - "Just now" for anything under one hour (including future timestamps)
//   - "Nh ago" for under one day
//   - "Nd ago" otherwise
//
// Example:
//
//	relativeAge(now.Add(-3*time.Hour), now)  // returns "3h ago"
func relativeAge(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return "Just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
