package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cryptofolio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FileRegistry keeps holdings in a single JSON document. Writes overwrite the
// file in place and are not locked against concurrent writers.
type FileRegistry struct {
	path string
	log  *logrus.Logger
}

func NewFileRegistry(path string, log *logrus.Logger) *FileRegistry {
	return &FileRegistry{path: path, log: log}
}

func (f *FileRegistry) Path() string { return f.path }

// fileHolding mirrors the on-disk shape; json.Number keeps values exact and
// writes them back as plain JSON numbers.
type fileHolding struct {
	Amount     *json.Number `json:"amount"`
	BuyPrice   *json.Number `json:"buy_price,omitempty"`
	AlertAbove *json.Number `json:"alert_above,omitempty"`
}

func (f *FileRegistry) Load(ctx context.Context) (models.Holdings, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read holdings: %w", err)
	}
	var doc map[string]fileHolding
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse holdings %s: %w", f.path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("parse holdings %s: %w", f.path, ErrNotAnObject)
	}
	res := models.Holdings{}
	for sym, fh := range doc {
		h, err := fh.toHolding(sym)
		if err != nil {
			return nil, fmt.Errorf("parse holdings %s: %w", f.path, err)
		}
		res[sym] = h
	}
	f.log.Debugf("loaded %d holdings from %s", len(res), f.path)
	return res, nil
}

func (f *FileRegistry) Save(ctx context.Context, holdings models.Holdings) error {
	doc := make(map[string]fileHolding, len(holdings))
	for sym, h := range holdings {
		doc[sym] = fromHolding(h)
	}
	b, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, b, 0o644); err != nil {
		return fmt.Errorf("write holdings: %w", err)
	}
	f.log.Debugf("saved %d holdings to %s", len(holdings), f.path)
	return nil
}

func (fh fileHolding) toHolding(sym string) (models.Holding, error) {
	if fh.Amount == nil {
		return models.Holding{}, fmt.Errorf("%s: %w", sym, ErrMissingAmount)
	}
	amount, err := decimal.NewFromString(fh.Amount.String())
	if err != nil {
		return models.Holding{}, fmt.Errorf("%s: amount: %w", sym, err)
	}
	h := models.Holding{Symbol: sym, Amount: amount, BuyPrice: decimal.Zero}
	if fh.BuyPrice != nil {
		if h.BuyPrice, err = decimal.NewFromString(fh.BuyPrice.String()); err != nil {
			return models.Holding{}, fmt.Errorf("%s: buy_price: %w", sym, err)
		}
	}
	if fh.AlertAbove != nil {
		a, err := decimal.NewFromString(fh.AlertAbove.String())
		if err != nil {
			return models.Holding{}, fmt.Errorf("%s: alert_above: %w", sym, err)
		}
		h.AlertAbove = &a
	}
	return h, nil
}

func fromHolding(h models.Holding) fileHolding {
	amount := json.Number(h.Amount.String())
	buy := json.Number(h.BuyPrice.String())
	fh := fileHolding{Amount: &amount, BuyPrice: &buy}
	if h.AlertAbove != nil {
		a := json.Number(h.AlertAbove.String())
		fh.AlertAbove = &a
	}
	return fh
}
