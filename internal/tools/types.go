// Package tools defines the Tool type and the financial-data tools the
// provider exposes over MCP.
package tools

import "context"

// Tool represents a callable operation the LLM can invoke
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}
