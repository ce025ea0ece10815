// Package mcpclient manages the host's session to the finance MCP server:
// bounded-retry connect, tool discovery, and tool invocation that degrades
// to user-facing text instead of failing.
package mcpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/config"
)

const unavailableMessage = "MCP server is no longer available. The server may have been shut down. " +
	"You can continue with general questions or restart the server and try again."

// connectionKeywords classify an error as a connection-level failure from
// its text. Matching any of these clears the catalog so tools are not
// offered again until a fresh discovery succeeds.
var connectionKeywords = []string{
	"connection", "protocol", "remote", "disconnect", "closed",
	"reset", "refused", "unreachable", "timeout", "network",
}

// session is the slice of the MCP client the connection manager uses.
// *client.Client satisfies it.
type session interface {
	Start(ctx context.Context) error
	Initialize(ctx context.Context, req mcp.InitializeRequest) (*mcp.InitializeResult, error)
	ListTools(ctx context.Context, req mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// Connection owns the transport and session handles. It is not safe for
// concurrent use; the host drives it from a single goroutine.
type Connection struct {
	serverURL  string
	maxRetries int
	baseDelay  time.Duration

	connectTimeout  time.Duration
	initTimeout     time.Duration
	discoverTimeout time.Duration
	callTimeout     time.Duration

	// test seams
	dial  func(url string) (session, error)
	sleep func(d time.Duration)

	sess  session
	tools []mcp.Tool
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		serverURL:       cfg.ServerURL,
		maxRetries:      cfg.MaxRetries,
		baseDelay:       time.Duration(cfg.BaseDelaySeconds * float64(time.Second)),
		connectTimeout:  time.Duration(cfg.ConnectTimeout) * time.Second,
		initTimeout:     time.Duration(cfg.InitTimeout) * time.Second,
		discoverTimeout: time.Duration(cfg.DiscoverTimeout) * time.Second,
		callTimeout:     time.Duration(cfg.ToolCallTimeout) * time.Second,
		dial: func(url string) (session, error) {
			cli, err := client.NewSSEMCPClient(url)
			if err != nil {
				return nil, err
			}
			return cli, nil
		},
		sleep: time.Sleep,
	}
}

// Tools returns the catalog confirmed by the last successful discovery on
// the current session. Empty means no tools may be offered.
func (c *Connection) Tools() []mcp.Tool { return c.tools }

// Connect establishes the session with exponential-backoff retry. Each
// attempt runs transport start, session initialization, and tool discovery;
// a failure at any step releases the attempt's resources before the next
// try. After the final failed attempt no delay is taken.
func (c *Connection) Connect(ctx context.Context) error {
	log.Info().Str("server_url", c.serverURL).Msg("connecting to finance MCP server")

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxInterval = time.Hour
	bo.MaxElapsedTime = 0
	bo.Reset()

	c.tools = nil

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		log.Info().Int("attempt", attempt).Int("max", c.maxRetries).Msg("connection attempt")

		// Release anything left from a previous session or attempt.
		c.closeSession()

		err := c.tryConnect(ctx)
		if err == nil {
			log.Info().Int("tools", len(c.tools)).Msg("connected to MCP server")
			return nil
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("connection attempt failed")
		c.closeSession()

		if attempt < c.maxRetries {
			delay := bo.NextBackOff()
			log.Info().Dur("delay", delay).Msg("waiting before retry")
			c.sleep(delay)
		}
	}

	return fmt.Errorf("unable to connect to MCP server at %s after %d attempts", c.serverURL, c.maxRetries)
}

func (c *Connection) tryConnect(ctx context.Context) error {
	sess, err := c.dial(c.serverURL)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	c.sess = sess

	startCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()
	if err := sess.Start(startCtx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, c.initTimeout)
	defer cancel()
	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "finsight-host", Version: "1.0.0"}
	if _, err := sess.Initialize(initCtx, initReq); err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}

	return c.discoverTools(ctx)
}

// discoverTools lists the server's tools. An empty result is a failure:
// the catalog stays empty and the whole connect attempt is retried.
func (c *Connection) discoverTools(ctx context.Context) error {
	listCtx, cancel := context.WithTimeout(ctx, c.discoverTimeout)
	defer cancel()

	res, err := c.sess.ListTools(listCtx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	if len(res.Tools) == 0 {
		return errors.New("no tools found on server")
	}

	c.tools = res.Tools
	for _, t := range c.tools {
		log.Info().Str("name", t.Name).Str("description", t.Description).Msg("discovered tool")
	}
	return nil
}

// CallTool invokes a named tool and always returns a textual result.
// Failures are classified: timeouts get a timeout message, connection-level
// errors clear the catalog and report the server unavailable, anything else
// becomes a generic error string.
func (c *Connection) CallTool(ctx context.Context, name string, args map[string]interface{}) string {
	if c.sess == nil {
		c.tools = nil
		return unavailableMessage
	}

	log.Info().Str("tool", name).Interface("args", args).Msg("calling tool")

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.sess.CallTool(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Sprintf("Tool %s timed out after %d seconds - MCP server may be unavailable",
				name, int(c.callTimeout.Seconds()))
		}
		if isConnectionError(err) {
			log.Warn().Err(err).Str("tool", name).Msg("connection-level tool failure, clearing catalog")
			c.tools = nil
			return unavailableMessage
		}
		log.Warn().Err(err).Str("tool", name).Msg("tool call failed")
		return fmt.Sprintf("Error calling tool %s: %v", name, err)
	}

	for _, content := range res.Content {
		if tc, ok := content.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return fmt.Sprintf("Tool %s executed but returned no content", name)
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, kw := range connectionKeywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// Close tears the session down. It is idempotent and never fails: close
// errors are logged and the handles reset so a later Connect starts clean.
func (c *Connection) Close() {
	c.closeSession()
	c.tools = nil
}

func (c *Connection) closeSession() {
	if c.sess == nil {
		return
	}
	if err := c.sess.Close(); err != nil {
		log.Debug().Err(err).Msg("session close")
	}
	c.sess = nil
}
