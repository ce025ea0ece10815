// Package alphavantage is a thin typed client for the Alpha Vantage
// market-data REST API.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured is returned before any network I/O when the API key is
// missing. Tool implementations surface it as a plain-text result.
var ErrNotConfigured = errors.New("Alpha Vantage API key not configured")

// UpstreamError is a semantic error from the API itself (invalid symbol,
// rate limit), as opposed to a transport failure.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

// GlobalQuote fetches the current quote for a stock symbol.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (*GlobalQuote, error) {
	symbol = strings.ToUpper(symbol)
	var env globalQuoteEnvelope
	if err := c.query(ctx, "GLOBAL_QUOTE", map[string]string{"symbol": symbol}, &env); err != nil {
		return nil, err
	}
	if env.ErrorMessage != "" {
		return nil, &UpstreamError{Message: fmt.Sprintf("Invalid symbol '%s' or API limit reached", symbol)}
	}
	if env.Note != "" {
		return nil, &UpstreamError{Message: env.Note}
	}
	if env.GlobalQuote.Symbol == "" && env.GlobalQuote.Price == "" {
		return nil, nil
	}
	return &env.GlobalQuote, nil
}

// SymbolSearch looks up stocks by company name or symbol.
func (c *Client) SymbolSearch(ctx context.Context, keywords string) ([]SymbolMatch, error) {
	var env symbolSearchEnvelope
	if err := c.query(ctx, "SYMBOL_SEARCH", map[string]string{"keywords": keywords}, &env); err != nil {
		return nil, err
	}
	if env.ErrorMessage != "" {
		return nil, &UpstreamError{Message: env.ErrorMessage}
	}
	if env.Note != "" {
		return nil, &UpstreamError{Message: env.Note}
	}
	return env.BestMatches, nil
}

// ExchangeRate fetches the realtime exchange rate between two currencies.
// Crypto symbols are valid from-currencies.
func (c *Client) ExchangeRate(ctx context.Context, from, to string) (*ExchangeRate, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	var env exchangeRateEnvelope
	if err := c.query(ctx, "CURRENCY_EXCHANGE_RATE", map[string]string{
		"from_currency": from,
		"to_currency":   to,
	}, &env); err != nil {
		return nil, err
	}
	if env.ErrorMessage != "" {
		return nil, &UpstreamError{Message: fmt.Sprintf("Invalid crypto symbol '%s' or API limit reached", from)}
	}
	if env.Note != "" {
		return nil, &UpstreamError{Message: env.Note}
	}
	if env.ExchangeRate.Rate == "" {
		return nil, nil
	}
	return &env.ExchangeRate, nil
}

func (c *Client) query(ctx context.Context, function string, params map[string]string, out any) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	q := url.Values{}
	q.Set("function", function)
	q.Set("apikey", c.apiKey)
	for k, v := range params {
		q.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
