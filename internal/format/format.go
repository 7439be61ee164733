// Package format holds display helpers for notification text.
package format

import (
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// weiPerToken is 10^18 — token amounts arrive as wei strings from the
// ingestion pipeline.
var weiPerToken = decimal.New(1, 18)

// FormatWei converts a wei-denominated amount string into a human-readable
// token amount, trimming trailing zeros. Unparseable input renders as "0"
// rather than failing the notification.
func FormatWei(wei string) string {
	d, err := decimal.NewFromString(wei)
	if err != nil {
		return "0"
	}
	return d.DivRound(weiPerToken, 18).String()
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
