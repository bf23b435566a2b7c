package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

type Holding struct {
	Symbol     string           `json:"symbol"`
	Amount     decimal.Decimal  `json:"amount"`
	BuyPrice   decimal.Decimal  `json:"buy_price"`
	AlertAbove *decimal.Decimal `json:"alert_above,omitempty"`
}

// HasAlert reports whether an alert threshold is set. A zero threshold counts as unset.
func (h Holding) HasAlert() bool {
	return h.AlertAbove != nil && !h.AlertAbove.IsZero()
}

// Holdings is keyed by lowercase coin id.
type Holdings map[string]Holding

// Symbols returns the keys in ascending order.
func (h Holdings) Symbols() []string {
	res := make([]string, 0, len(h))
	for s := range h {
		res = append(res, s)
	}
	sort.Strings(res)
	return res
}

type PriceQuote struct {
	Symbol string          `json:"symbol"`
	USD    decimal.Decimal `json:"usd"`
	INR    decimal.Decimal `json:"inr"`
}

type ValuationRow struct {
	Symbol     string          `json:"symbol"`
	Amount     decimal.Decimal `json:"amount"`
	BuyPrice   decimal.Decimal `json:"buy_price"`
	CurrentUSD decimal.Decimal `json:"current_usd"`
	CurrentINR decimal.Decimal `json:"current_inr"`
	ValueUSD   decimal.Decimal `json:"value_usd"`
	ValueINR   decimal.Decimal `json:"value_inr"`
	GainUSD    decimal.Decimal `json:"gain_usd"`
}

type Valuation struct {
	Rows     []ValuationRow  `json:"rows"`
	TotalUSD decimal.Decimal `json:"total_usd"`
	TotalINR decimal.Decimal `json:"total_inr"`
	Alerts   []string        `json:"alerts"`
}
