package database

import (
	"testing"

	"cryptofolio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func sampleHoldings() models.Holdings {
	return models.Holdings{
		"bitcoin":  {Symbol: "bitcoin", Amount: dec("2"), BuyPrice: dec("20000"), AlertAbove: decPtr("30000")},
		"dogecoin": {Symbol: "dogecoin", Amount: dec("100"), BuyPrice: dec("0.1")},
		"ethereum": {Symbol: "ethereum", Amount: dec("1.25"), BuyPrice: dec("1800.5"), AlertAbove: decPtr("2500")},
	}
}

// requireSameHoldings compares decimals by value, not representation.
func requireSameHoldings(t *testing.T, want, got models.Holdings) {
	t.Helper()
	require.Equal(t, want.Symbols(), got.Symbols())
	for sym, w := range want {
		g := got[sym]
		assert.Equal(t, sym, g.Symbol)
		assert.True(t, w.Amount.Equal(g.Amount), "%s amount: want %s got %s", sym, w.Amount, g.Amount)
		assert.True(t, w.BuyPrice.Equal(g.BuyPrice), "%s buy_price: want %s got %s", sym, w.BuyPrice, g.BuyPrice)
		if w.AlertAbove == nil {
			assert.Nil(t, g.AlertAbove, "%s alert_above", sym)
			continue
		}
		if assert.NotNil(t, g.AlertAbove, "%s alert_above", sym) {
			assert.True(t, w.AlertAbove.Equal(*g.AlertAbove), "%s alert_above: want %s got %s", sym, w.AlertAbove, g.AlertAbove)
		}
	}
}
