package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/finsight/finsight/internal/tools"
)

// registerTool adapts a tools.Tool to the MCP server's tool type and
// handler signature. Execute errors become tool error results, never
// protocol errors.
func registerTool(srv *mcpserver.MCPServer, t tools.Tool) {
	srv.AddTool(mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: toInputSchema(t.InputSchema),
	}, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := t.Execute(ctx, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	})
}

func toInputSchema(schema map[string]interface{}) mcp.ToolInputSchema {
	out := mcp.ToolInputSchema{Type: "object"}
	if t, ok := schema["type"].(string); ok {
		out.Type = t
	}
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		out.Properties = props
	}
	switch required := schema["required"].(type) {
	case []string:
		out.Required = required
	case []interface{}:
		for _, r := range required {
			if s, ok := r.(string); ok {
				out.Required = append(out.Required, s)
			}
		}
	}
	return out
}
