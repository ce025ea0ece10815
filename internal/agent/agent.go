// Package agent runs the conversation loop between the user, the Anthropic
// Messages API, and the MCP tool catalog.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/config"
)

const noToolsNote = "Note: MCP server tools are currently unavailable. " +
	"Provide a helpful response based on general knowledge."

// ToolCall represents a tool invocation request from the LLM
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// ToolSource supplies the confirmed tool catalog and executes calls
// against it. Implemented by mcpclient.Connection.
type ToolSource interface {
	Tools() []mcp.Tool
	CallTool(ctx context.Context, name string, args map[string]interface{}) string
}

// completion is a parsed LLM response: what the orchestration logic needs,
// plus the assistant message to thread back into history.
type completion struct {
	stopReason string
	text       string
	toolCalls  []ToolCall
	assistant  anthropic.MessageParam
}

type completionClient interface {
	complete(ctx context.Context, params anthropic.MessageNewParams) (*completion, error)
}

// anthropicLLM adapts the SDK client to completionClient.
type anthropicLLM struct {
	client *anthropic.Client
}

func (a *anthropicLLM) complete(ctx context.Context, params anthropic.MessageNewParams) (*completion, error) {
	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	comp := &completion{
		stopReason: string(resp.StopReason),
		assistant:  resp.ToParam(),
	}
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			comp.text += b.Text
		case anthropic.ToolUseBlock:
			var input map[string]interface{}
			if err := json.Unmarshal(b.Input, &input); err != nil {
				log.Warn().Err(err).Str("tool", b.Name).Msg("failed to parse tool input")
				input = map[string]interface{}{}
			}
			comp.toolCalls = append(comp.toolCalls, ToolCall{ID: b.ID, Name: b.Name, Input: input})
		}
	}
	return comp, nil
}

// Orchestrator mediates one user turn at a time. Each Respond call starts
// from a fresh history; memory across turns is out of scope.
type Orchestrator struct {
	llm           completionClient
	source        ToolSource
	model         string
	maxTokens     int
	maxToolRounds int
	llmTimeout    time.Duration
}

func New(cfg *config.Config, source ToolSource) *Orchestrator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}
	return &Orchestrator{
		llm:           &anthropicLLM{client: anthropic.NewClient(opts...)},
		source:        source,
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		maxToolRounds: cfg.MaxToolRounds,
		llmTimeout:    time.Duration(cfg.LLMTimeout) * time.Second,
	}
}

// Respond answers one user message. Every failure path degrades to a
// user-facing string; this never returns an error.
func (o *Orchestrator) Respond(ctx context.Context, userMessage string) string {
	turnID := uuid.NewString()[:8]
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
	}

	for round := 0; ; round++ {
		// Refresh each round: a connection-level tool failure clears the
		// catalog mid-turn, and stale tools must not be offered again.
		toolParams := toolParamsFor(o.source.Tools())

		params := anthropic.MessageNewParams{
			Model:     anthropic.F(anthropic.Model(o.model)),
			MaxTokens: anthropic.F(int64(o.maxTokens)),
			Messages:  anthropic.F(messages),
		}
		if len(toolParams) > 0 {
			params.Tools = anthropic.F(toolParams)
		} else if round == 0 {
			params.System = anthropic.F([]anthropic.TextBlockParam{
				anthropic.NewTextBlock(noToolsNote),
			})
		}

		llmCtx, cancel := context.WithTimeout(ctx, o.llmTimeout)
		comp, err := o.llm.complete(llmCtx, params)
		cancel()
		if err != nil {
			return o.describeLLMError(err)
		}

		log.Debug().
			Str("turn", turnID).
			Int("round", round).
			Str("stop_reason", comp.stopReason).
			Int("tool_calls", len(comp.toolCalls)).
			Msg("completion received")

		done := comp.stopReason != "tool_use" ||
			len(comp.toolCalls) == 0 ||
			len(toolParams) == 0 ||
			round >= o.maxToolRounds
		if done {
			return comp.text
		}

		messages = append(messages, comp.assistant)

		// Execute tool calls sequentially, in model order.
		var results []anthropic.ContentBlockParamUnion
		for _, tc := range comp.toolCalls {
			log.Info().Str("turn", turnID).Str("tool", tc.Name).Msg("executing tool call")
			result := o.source.CallTool(ctx, tc.Name, tc.Input)
			results = append(results, anthropic.NewToolResultBlock(tc.ID, result, false))
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}
}

func (o *Orchestrator) describeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Claude request timed out after %d seconds", int(o.llmTimeout.Seconds()))
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "authentication") || strings.Contains(msg, "x-api-key") || strings.Contains(msg, "401") {
		return "Authentication error with Claude API. Please check your ANTHROPIC_API_KEY."
	}
	return "Error communicating with Claude: " + err.Error()
}

func toolParamsFor(catalog []mcp.Tool) []anthropic.ToolUnionUnionParam {
	if len(catalog) == 0 {
		return nil
	}
	params := make([]anthropic.ToolUnionUnionParam, len(catalog))
	for i, t := range catalog {
		schema := map[string]interface{}{
			"type":       "object",
			"properties": t.InputSchema.Properties,
		}
		if len(t.InputSchema.Required) > 0 {
			schema["required"] = t.InputSchema.Required
		}
		params[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}
	return params
}
