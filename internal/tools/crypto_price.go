package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight/finsight/internal/alphavantage"
)

// CryptoPriceTool returns the current USD price for a cryptocurrency
func CryptoPriceTool(av *alphavantage.Client) Tool {
	return Tool{
		Name:        "get_crypto_price",
		Description: "Get current cryptocurrency price in USD",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"symbol": map[string]interface{}{
					"type":        "string",
					"description": "The cryptocurrency symbol, e.g. BTC",
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

			rate, err := av.ExchangeRate(ctx, symbol, "USD")
			if err != nil {
				return "", formatLookupError(err)
			}
			if rate == nil {
				return fmt.Sprintf("No data found for crypto: %s", symbol), nil
			}

			return fmt.Sprintf(`Crypto Price for %s:
• Current Price: $%s USD
• Last Updated: %s
`, orNA(rate.FromCurrencyCode), orNA(rate.Rate), orNA(rate.LastRefreshed)), nil
		},
	}
}

// All returns every tool the provider exposes, in registration order.
func All(av *alphavantage.Client) []Tool {
	return []Tool{
		StockQuoteTool(av),
		SearchStocksTool(av),
		CryptoPriceTool(av),
	}
}
