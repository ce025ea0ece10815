package alphavantage_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finsight/finsight/internal/alphavantage"
)

func TestGlobalQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("unexpected function %q", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "AAPL" {
			t.Errorf("symbol not uppercased: %q", got)
		}
		w.Write([]byte(`{"Global Quote": {
			"01. symbol": "AAPL",
			"05. price": "150.0000",
			"06. volume": "51234567",
			"07. latest trading day": "2026-08-28",
			"09. change": "1.2300",
			"10. change percent": "0.8267%"
		}}`))
	}))
	defer srv.Close()

	c := alphavantage.New("test-key", srv.URL)
	quote, err := c.GlobalQuote(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GlobalQuote: %v", err)
	}
	if quote.Price != "150.0000" {
		t.Errorf("price = %q", quote.Price)
	}
	if quote.ChangePercent != "0.8267%" {
		t.Errorf("change percent = %q", quote.ChangePercent)
	}
}

func TestGlobalQuote_EmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	}))
	defer srv.Close()

	c := alphavantage.New("test-key", srv.URL)
	quote, err := c.GlobalQuote(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("GlobalQuote: %v", err)
	}
	if quote != nil {
		t.Errorf("expected nil quote for empty payload, got %+v", quote)
	}
}

func TestGlobalQuote_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer srv.Close()

	c := alphavantage.New("test-key", srv.URL)
	_, err := c.GlobalQuote(context.Background(), "???")
	var upstream *alphavantage.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message != "Invalid symbol '???' or API limit reached" {
		t.Errorf("message = %q", upstream.Message)
	}
}

func TestExchangeRate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer srv.Close()

	c := alphavantage.New("test-key", srv.URL)
	_, err := c.ExchangeRate(context.Background(), "xyz", "usd")
	var upstream *alphavantage.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Message != "Invalid crypto symbol 'XYZ' or API limit reached" {
		t.Errorf("message = %q", upstream.Message)
	}
}

func TestNotConfigured_NoNetworkIO(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := alphavantage.New("", srv.URL)
	if c.Configured() {
		t.Error("Configured() should be false without a key")
	}
	if _, err := c.GlobalQuote(context.Background(), "AAPL"); !errors.Is(err, alphavantage.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no network I/O, server saw %d requests", calls)
	}
}

func TestSymbolSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keywords"); got != "apple" {
			t.Errorf("keywords = %q", got)
		}
		w.Write([]byte(`{"bestMatches": [
			{"1. symbol": "AAPL", "2. name": "Apple Inc"},
			{"1. symbol": "APLE", "2. name": "Apple Hospitality REIT Inc"}
		]}`))
	}))
	defer srv.Close()

	c := alphavantage.New("test-key", srv.URL)
	matches, err := c.SymbolSearch(context.Background(), "apple")
	if err != nil {
		t.Fatalf("SymbolSearch: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Symbol != "AAPL" || matches[0].Name != "Apple Inc" {
		t.Errorf("unexpected first match %+v", matches[0])
	}
}

func TestExchangeRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("from_currency"); got != "BTC" {
			t.Errorf("from_currency = %q", got)
		}
		if got := r.URL.Query().Get("to_currency"); got != "USD" {
			t.Errorf("to_currency = %q", got)
		}
		w.Write([]byte(`{"Realtime Currency Exchange Rate": {
			"1. From_Currency Code": "BTC",
			"5. Exchange Rate": "65000.12340000",
			"6. Last Refreshed": "2026-08-30 10:00:01"
		}}`))
	}))
	defer srv.Close()

	c := alphavantage.New("test-key", srv.URL)
	rate, err := c.ExchangeRate(context.Background(), "btc", "usd")
	if err != nil {
		t.Fatalf("ExchangeRate: %v", err)
	}
	if rate.Rate != "65000.12340000" {
		t.Errorf("rate = %q", rate.Rate)
	}
}
