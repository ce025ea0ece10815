package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finsight/finsight/internal/alphavantage"
)

// StockQuoteTool returns the current price and basic info for a stock symbol
func StockQuoteTool(av *alphavantage.Client) Tool {
	return Tool{
		Name:        "get_stock_quote",
		Description: "Get current stock price and basic info for a given symbol",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"symbol": map[string]interface{}{
					"type":        "string",
					"description": "The stock ticker symbol, e.g. AAPL",
				},
			},
			"required": []string{"symbol"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			symbol, _ := input["symbol"].(string)
			if symbol == "" {
				return "", fmt.Errorf("symbol is required")
			}
			symbol = strings.ToUpper(symbol)

			quote, err := av.GlobalQuote(ctx, symbol)
			if err != nil {
				return "", formatLookupError(err)
			}
			if quote == nil {
				return fmt.Sprintf("No data found for symbol: %s", symbol), nil
			}

			return fmt.Sprintf(`Stock Quote for %s:
• Current Price: $%s
• Change: %s (%s)
• Volume: %s
• Last Updated: %s
`, symbol,
				orNA(quote.Price), orNA(quote.Change), orNA(quote.ChangePercent),
				orNA(quote.Volume), orNA(quote.LatestTradingDay)), nil
		},
	}
}

// formatLookupError keeps upstream semantics readable: configuration and
// semantic errors become plain Error strings, transport errors are wrapped.
func formatLookupError(err error) error {
	if errors.Is(err, alphavantage.ErrNotConfigured) {
		return fmt.Errorf("Error: Alpha Vantage API key not configured")
	}
	var upstream *alphavantage.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Errorf("Error: %s", upstream.Message)
	}
	return fmt.Errorf("Error: %v", err)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
