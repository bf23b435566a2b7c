package display

import (
	"strings"

	"cryptofolio/internal/models"
)

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Table struct {
	Currency string     `json:"currency"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Metrics  []Metric   `json:"metrics"`
	Alerts   []string   `json:"alerts"`
}

var (
	usdColumns = []string{"Token", "Amount", "Buy Price (USD)", "Current Price (USD)", "Value (USD)", "Gain/Loss (USD)"}
	inrColumns = []string{"Token", "Amount", "Value (INR)"}
)

// NormalizeCurrency maps anything but INR to USD.
func NormalizeCurrency(c string) string {
	if strings.EqualFold(strings.TrimSpace(c), INR) {
		return INR
	}
	return USD
}

// Build lays out v for the chosen display currency. Both totals are always
// reported regardless of the currency.
func Build(v models.Valuation, currency string) Table {
	currency = NormalizeCurrency(currency)
	t := Table{
		Currency: currency,
		Rows:     [][]string{},
		Metrics: []Metric{
			{Label: "Total Portfolio Value (USD)", Value: FormatUSD(v.TotalUSD)},
			{Label: "Total Portfolio Value (INR)", Value: FormatINR(v.TotalINR)},
		},
		Alerts: v.Alerts,
	}
	if t.Alerts == nil {
		t.Alerts = []string{}
	}
	if currency == INR {
		t.Columns = inrColumns
	} else {
		t.Columns = usdColumns
	}
	for _, r := range v.Rows {
		token := Capitalize(r.Symbol)
		if currency == INR {
			t.Rows = append(t.Rows, []string{token, r.Amount.String(), FormatINR(r.ValueINR)})
			continue
		}
		t.Rows = append(t.Rows, []string{
			token,
			r.Amount.String(),
			"$" + r.BuyPrice.String(),
			"$" + r.CurrentUSD.String(),
			FormatUSD(r.ValueUSD),
			FormatUSD(r.GainUSD),
		})
	}
	return t
}
