package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/finsight/finsight/internal/alphavantage"
)

// SearchStocksTool searches for stocks by company name or symbol
func SearchStocksTool(av *alphavantage.Client) Tool {
	return Tool{
		Name:        "search_stocks",
		Description: "Search for stocks by company name or symbol",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Company name or ticker fragment to search for",
				},
			},
			"required": []string{"query"},
		},
		Execute: func(ctx context.Context, input map[string]interface{}) (string, error) {
			query, _ := input["query"].(string)
			if query == "" {
				return "", fmt.Errorf("query is required")
			}

			matches, err := av.SymbolSearch(ctx, query)
			if err != nil {
				return "", formatLookupError(err)
			}
			if len(matches) == 0 {
				return fmt.Sprintf("No stocks found matching: %s", query), nil
			}

			// Limit to top 5
			if len(matches) > 5 {
				matches = matches[:5]
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Search results for '%s':\n\n", query)
			for i, m := range matches {
				fmt.Fprintf(&b, "%d. %s - %s\n", i+1, orNA(m.Symbol), orNA(m.Name))
			}
			return b.String(), nil
		},
	}
}
