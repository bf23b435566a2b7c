package service

import (
	"fmt"
	"strings"

	"cryptofolio/internal/models"

	"github.com/shopspring/decimal"
)

// Compute values every holding against quotes and totals the portfolio.
// A symbol without a quote is priced at zero in both currencies.
func Compute(holdings models.Holdings, quotes map[string]models.PriceQuote) models.Valuation {
	res := models.Valuation{
		Rows:     []models.ValuationRow{},
		TotalUSD: decimal.Zero,
		TotalINR: decimal.Zero,
		Alerts:   []string{},
	}
	for _, sym := range holdings.Symbols() {
		h := holdings[sym]
		q := quotes[sym]

		valueUSD := q.USD.Mul(h.Amount)
		valueINR := q.INR.Mul(h.Amount)
		gainUSD := valueUSD.Sub(h.BuyPrice.Mul(h.Amount))

		res.TotalUSD = res.TotalUSD.Add(valueUSD)
		res.TotalINR = res.TotalINR.Add(valueINR)

		if h.HasAlert() && q.USD.GreaterThan(*h.AlertAbove) {
			res.Alerts = append(res.Alerts, alertMessage(sym, *h.AlertAbove, q.USD))
		}

		res.Rows = append(res.Rows, models.ValuationRow{
			Symbol:     sym,
			Amount:     h.Amount,
			BuyPrice:   h.BuyPrice,
			CurrentUSD: q.USD,
			CurrentINR: q.INR,
			ValueUSD:   valueUSD,
			ValueINR:   valueINR,
			GainUSD:    gainUSD,
		})
	}
	return res
}

func alertMessage(symbol string, threshold, current decimal.Decimal) string {
	return fmt.Sprintf("🚨 %s crossed $%s! Current: $%s", strings.ToUpper(symbol), threshold.String(), current.String())
}
