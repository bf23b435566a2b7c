package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cryptofolio/internal/models"
	"cryptofolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type memRegistry struct {
	holdings models.Holdings
	loadErr  error
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
	m.holdings = h
	return nil
}

type stubPrices struct {
	quotes map[string]models.PriceQuote
	err    error
}

func (s *stubPrices) FetchQuotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	return s.quotes, s.err
}

func setupRouter(reg *memRegistry, prices *stubPrices) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	h := NewHandler(service.NewTracker(reg, prices, logger), logger)
	rg := gin.New()
	h.Register(rg)
	return rg
}

func bitcoinFixture() (*memRegistry, *stubPrices) {
	alert := dec("30000")
	reg := &memRegistry{holdings: models.Holdings{
		"bitcoin": {Symbol: "bitcoin", Amount: dec("2"), BuyPrice: dec("20000"), AlertAbove: &alert},
	}}
	prices := &stubPrices{quotes: map[string]models.PriceQuote{
		"bitcoin": {Symbol: "bitcoin", USD: dec("31000"), INR: dec("2500000")},
	}}
	return reg, prices
}

func do(rg *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rg.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	rg := setupRouter(bitcoinFixture())
	w := do(rg, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetDashboard(t *testing.T) {
	rg := setupRouter(bitcoinFixture())

	w := do(rg, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Gain/Loss (USD)")
	assert.Contains(t, body, "Bitcoin")
	assert.Contains(t, body, "$62,000.00")
	assert.Contains(t, body, "$22,000.00")
	assert.Contains(t, body, "₹5,000,000.00")
	assert.Contains(t, body, "BITCOIN crossed $30000! Current: $31000")
	assert.Contains(t, body, "Last updated:")

	w = do(rg, httptest.NewRequest(http.MethodGet, "/?currency=INR", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Value (INR)")
	assert.NotContains(t, w.Body.String(), "Gain/Loss (USD)")
}

func TestGetDashboard_NoAlertBanner(t *testing.T) {
	reg, prices := bitcoinFixture()
	prices.quotes["bitcoin"] = models.PriceQuote{Symbol: "bitcoin", USD: dec("30000"), INR: dec("1")}
	rg := setupRouter(reg, prices)

	w := do(rg, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Alerts Triggered")
}

func TestGetPortfolio(t *testing.T) {
	rg := setupRouter(bitcoinFixture())

	w := do(rg, httptest.NewRequest(http.MethodGet, "/api/portfolio?currency=usd", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Valuation struct {
			TotalUSD string   `json:"total_usd"`
			TotalINR string   `json:"total_inr"`
			Alerts   []string `json:"alerts"`
			Rows     []struct {
				Symbol  string `json:"symbol"`
				GainUSD string `json:"gain_usd"`
			} `json:"rows"`
		} `json:"valuation"`
		Table struct {
			Currency string     `json:"currency"`
			Rows     [][]string `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "62000", res.Valuation.TotalUSD)
	assert.Equal(t, "5000000", res.Valuation.TotalINR)
	require.Len(t, res.Valuation.Rows, 1)
	assert.Equal(t, "22000", res.Valuation.Rows[0].GainUSD)
	assert.Len(t, res.Valuation.Alerts, 1)
	assert.Equal(t, "USD", res.Table.Currency)
	assert.Equal(t, "$62,000.00", res.Table.Rows[0][4])
}

func TestSnapshotFailures(t *testing.T) {
	t.Run("load failure", func(t *testing.T) {
		reg, prices := bitcoinFixture()
		reg.loadErr = errors.New("unexpected end of JSON input")
		rg := setupRouter(reg, prices)

		w := do(rg, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		w = do(rg, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("price failure", func(t *testing.T) {
		reg, prices := bitcoinFixture()
		prices.err = errors.New("connection refused")
		rg := setupRouter(reg, prices)

		w := do(rg, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"price fetch failed"}`, w.Body.String())
		w = do(rg, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func postForm(rg *gin.Engine, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/holdings", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(rg, req)
}

func TestPostHoldingForm(t *testing.T) {
	reg, prices := bitcoinFixture()
	rg := setupRouter(reg, prices)

	w := postForm(rg, url.Values{"symbol": {"Ethereum"}, "amount": {"3"}, "buy_price": {"1500"}, "alert_above": {"0"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Added ethereum to portfolio! Refresh the app.")
	require.Contains(t, reg.holdings, "ethereum")
	assert.True(t, reg.holdings["ethereum"].Amount.Equal(dec("3")))
	assert.Nil(t, reg.holdings["ethereum"].AlertAbove)

	w = postForm(rg, url.Values{"symbol": {"solana"}, "amount": {"0"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.NotContains(t, reg.holdings, "solana")
}

func TestPostHolding(t *testing.T) {
	reg, prices := bitcoinFixture()
	rg := setupRouter(reg, prices)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/holdings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return do(rg, req)
	}

	w := post(`{"symbol":"dogecoin","amount":100,"buy_price":"0.1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"added"`)
	require.Contains(t, reg.holdings, "dogecoin")
	assert.True(t, reg.holdings["dogecoin"].BuyPrice.Equal(dec("0.1")))

	w = post(`{"symbol":"","amount":1}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ignored"}`, w.Body.String())

	w = post(`{"symbol":"dogecoin","amount":-5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reg.holdings["dogecoin"].Amount.Equal(dec("100")))

	w = post(`{"symbol":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
