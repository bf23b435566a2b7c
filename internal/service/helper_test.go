package service

import (
	"context"
	"errors"

	"cryptofolio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
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

type memRegistry struct {
	holdings models.Holdings
	loadErr  error
	saveErr  error
	saves    int
}

func (m *memRegistry) Load(ctx context.Context) (models.Holdings, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	res := models.Holdings{}
	for k, v := range m.holdings {
		res[k] = v
	}
	return res, nil
}

func (m *memRegistry) Save(ctx context.Context, h models.Holdings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.holdings = h
	return nil
}

type stubPrices struct {
	quotes  map[string]models.PriceQuote
	err     error
	calls   int
	symbols []string
}

func (s *stubPrices) FetchQuotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	s.calls++
	s.symbols = symbols
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

var errBoom = errors.New("boom")
