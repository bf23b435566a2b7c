package database

import (
	"context"
	"fmt"

	"cryptofolio/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// schemaFor returns the holdings DDL for driver. SQLite would coerce NUMERIC
// to an 8-byte REAL, so amounts are kept as TEXT there to stay exact.
func schemaFor(driver string) string {
	num := "NUMERIC"
	if driver == "sqlite" {
		num = "TEXT"
	}
	return `CREATE TABLE IF NOT EXISTS holdings (
	symbol      TEXT PRIMARY KEY,
	amount      ` + num + ` NOT NULL,
	buy_price   ` + num + ` NOT NULL DEFAULT '0',
	alert_above ` + num + `
)`
}

// Repo stores holdings in a SQL table. Queries are written with '?' and
// rebound for the driver, so the same code serves Postgres and SQLite.
type Repo struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func New(db *sqlx.DB, log *logrus.Logger) *Repo {
	return &Repo{db: db, log: log}
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schemaFor(r.db.DriverName()))
	return err
}

type holdingRow struct {
	Symbol     string              `db:"symbol"`
	Amount     decimal.Decimal     `db:"amount"`
	BuyPrice   decimal.Decimal     `db:"buy_price"`
	AlertAbove decimal.NullDecimal `db:"alert_above"`
}

func (r *Repo) Load(ctx context.Context) (models.Holdings, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT symbol, amount, buy_price, alert_above FROM holdings`)
	if err != nil {
		return nil, fmt.Errorf("query holdings: %w", err)
	}
	defer rows.Close()
	res := models.Holdings{}
	for rows.Next() {
		var row holdingRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		h := models.Holding{Symbol: row.Symbol, Amount: row.Amount, BuyPrice: row.BuyPrice}
		if row.AlertAbove.Valid {
			a := row.AlertAbove.Decimal
			h.AlertAbove = &a
		}
		res[row.Symbol] = h
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Save replaces the stored set with holdings in one transaction.
func (r *Repo) Save(ctx context.Context, holdings models.Holdings) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holdings`); err != nil {
		return fmt.Errorf("clear holdings: %w", err)
	}
	ins := tx.Rebind(`INSERT INTO holdings (symbol, amount, buy_price, alert_above) VALUES (?, ?, ?, ?)`)
	for _, sym := range holdings.Symbols() {
		h := holdings[sym]
		if _, err := tx.ExecContext(ctx, ins, sym, h.Amount.String(), h.BuyPrice.String(), alertArg(h)); err != nil {
			return fmt.Errorf("insert holding %s: %w", sym, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.log.Debugf("saved %d holdings", len(holdings))
	return nil
}

// Upsert writes a single holding, replacing any existing row for its symbol.
func (r *Repo) Upsert(ctx context.Context, h models.Holding) error {
	q := r.db.Rebind(`INSERT INTO holdings (symbol, amount, buy_price, alert_above) VALUES (?, ?, ?, ?)
		ON CONFLICT (symbol) DO UPDATE SET amount = excluded.amount, buy_price = excluded.buy_price, alert_above = excluded.alert_above`)
	_, err := r.db.ExecContext(ctx, q, h.Symbol, h.Amount.String(), h.BuyPrice.String(), alertArg(h))
	return err
}

func alertArg(h models.Holding) interface{} {
	if h.AlertAbove == nil {
		return nil
	}
	return h.AlertAbove.String()
}
