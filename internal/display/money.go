// Package display turns a valuation into the rows and metrics shown on the dashboard.
package display

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	USD = "USD"
	INR = "INR"
)

// FormatMoney renders d in the currency's own grapheme and grouping, rounded
// to the currency's minor unit. The sign goes after the grapheme ("$-10.00").
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := *money.New(0, currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	if minor >= 0 {
		return cur.Formatter().Format(minor)
	}
	s := cur.Formatter().Format(-minor)
	return strings.Replace(s, cur.Grapheme, cur.Grapheme+"-", 1)
}

func FormatUSD(d decimal.Decimal) string { return FormatMoney(d, USD) }
func FormatINR(d decimal.Decimal) string { return FormatMoney(d, INR) }

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
