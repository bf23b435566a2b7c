package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cryptofolio/internal/database"
	"cryptofolio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Tracker runs one load, fetch and compute pass per request. It keeps no state
// between passes apart from what the registry persists.
type Tracker struct {
	registry database.Registry
	prices   PriceProvider
	log      *logrus.Logger
	now      func() time.Time
}

func NewTracker(r database.Registry, p PriceProvider, log *logrus.Logger) *Tracker {
	return &Tracker{registry: r, prices: p, log: log, now: time.Now}
}

// LoadError marks failures reading the registry, as opposed to the price feed.
type LoadError struct{ Err error }

func (e *LoadError) Error() string { return "load holdings: " + e.Err.Error() }
func (e *LoadError) Unwrap() error { return e.Err }

type Snapshot struct {
	models.Valuation
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	holdings, err := t.registry.Load(ctx)
	if err != nil {
		return Snapshot{}, &LoadError{Err: err}
	}
	quotes, err := t.prices.FetchQuotes(ctx, holdings.Symbols())
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch prices: %w", err)
	}
	v := Compute(holdings, quotes)
	if len(v.Alerts) > 0 {
		t.log.Infof("%d price alerts triggered", len(v.Alerts))
	}
	return Snapshot{Valuation: v, UpdatedAt: t.now()}, nil
}

// AddHoldingForm carries the raw add-coin form values.
type AddHoldingForm struct {
	Symbol     string `form:"symbol"`
	Amount     string `form:"amount"`
	BuyPrice   string `form:"buy_price"`
	AlertAbove string `form:"alert_above"`
}

// Holding validates the form. ok is false when the submission should be
// ignored: empty symbol, non-positive amount, or an unparsable or negative number.
func (f AddHoldingForm) Holding() (h models.Holding, ok bool) {
	sym := strings.ToLower(strings.TrimSpace(f.Symbol))
	if sym == "" {
		return models.Holding{}, false
	}
	amount, ok := parseNonNegative(f.Amount)
	if !ok || !amount.IsPositive() {
		return models.Holding{}, false
	}
	buy, ok := parseNonNegative(f.BuyPrice)
	if !ok {
		return models.Holding{}, false
	}
	alert, ok := parseNonNegative(f.AlertAbove)
	if !ok {
		return models.Holding{}, false
	}
	h = models.Holding{Symbol: sym, Amount: amount, BuyPrice: buy}
	if !alert.IsZero() {
		h.AlertAbove = &alert
	}
	return h, true
}

// parseNonNegative treats a blank field as zero.
func parseNonNegative(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// AddHolding stores the form's holding, overwriting any existing entry for the
// same symbol. It reports false without error when the form is ignored.
func (t *Tracker) AddHolding(ctx context.Context, f AddHoldingForm) (models.Holding, bool, error) {
	h, ok := f.Holding()
	if !ok {
		t.log.Debugf("ignoring add-holding submission for %q", f.Symbol)
		return models.Holding{}, false, nil
	}
	holdings, err := t.registry.Load(ctx)
	if err != nil {
		return models.Holding{}, false, &LoadError{Err: err}
	}
	if _, exists := holdings[h.Symbol]; exists {
		t.log.Infof("overwriting existing holding %s", h.Symbol)
	}
	holdings[h.Symbol] = h
	if err := t.registry.Save(ctx, holdings); err != nil {
		return models.Holding{}, false, fmt.Errorf("save holdings: %w", err)
	}
	t.log.Infof("added %s to portfolio", h.Symbol)
	return h, true, nil
}
