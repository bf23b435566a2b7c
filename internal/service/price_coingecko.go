package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cryptofolio/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const DefaultPriceAPIURL = "https://api.coingecko.com/api/v3"

type PriceProvider interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error)
}

// HTTPDoer is the part of *http.Client the price service uses.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// PriceOption configures a CoinGeckoPriceService.
type PriceOption func(*CoinGeckoPriceService)

// WithHTTPClient replaces the default timeout-bound *http.Client.
func WithHTTPClient(c HTTPDoer) PriceOption {
	return func(p *CoinGeckoPriceService) {
		p.client = c
	}
}

type CoinGeckoPriceService struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
	log     *logrus.Logger
}

func NewCoinGeckoPriceService(baseURL, apiKey string, timeout time.Duration, log *logrus.Logger, opts ...PriceOption) *CoinGeckoPriceService {
	if baseURL == "" {
		baseURL = DefaultPriceAPIURL
	}
	p := &CoinGeckoPriceService{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type coinPrice struct {
	USD decimal.Decimal `json:"usd"`
	INR decimal.Decimal `json:"inr"`
}

// FetchQuotes asks for USD and INR prices of all symbols in a single request.
// Failures are returned as-is; there is no retry.
func (p *CoinGeckoPriceService) FetchQuotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	res := map[string]models.PriceQuote{}
	if len(symbols) == 0 {
		return res, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(symbols, ","))
	q.Set("vs_currencies", "usd,inr")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", p.apiKey)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("price request: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload map[string]coinPrice
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode price response: %w", err)
	}
	for sym, cp := range payload {
		res[sym] = models.PriceQuote{Symbol: sym, USD: cp.USD, INR: cp.INR}
	}
	p.log.Debugf("fetched %d/%d quotes in %s", len(res), len(symbols), time.Since(start))
	return res, nil
}
