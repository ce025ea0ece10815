// Package shell is the host's interactive read-eval-print loop.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Connector is the slice of the connection manager the shell drives.
type Connector interface {
	Connect(ctx context.Context) error
	Tools() []mcp.Tool
}

// Responder answers a single user message.
type Responder interface {
	Respond(ctx context.Context, userMessage string) string
}

type Shell struct {
	conn  Connector
	agent Responder
	in    io.Reader
	out   io.Writer

	// sticky once the user opts to continue without tools
	proceedWithoutTools bool
}

func New(conn Connector, agent Responder) *Shell {
	return &Shell{conn: conn, agent: agent, in: os.Stdin, out: os.Stdout}
}

// Run reads operator input until quit/EOF. Errors from individual turns
// are printed and the loop continues; only input exhaustion ends it.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, strings.Repeat("=", 50))
	fmt.Fprintln(s.out, "Finance Analyzer Ready!")
	fmt.Fprintln(s.out, "Ask me about stocks, crypto, or financial analysis.")
	fmt.Fprintln(s.out, "Type 'quit', 'exit', or 'q' to exit.")
	fmt.Fprintln(s.out, strings.Repeat("=", 50))
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out, "\nGoodbye!")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}

		if len(s.conn.Tools()) == 0 && !s.proceedWithoutTools {
			fmt.Fprintln(s.out, "No MCP tools available. Attempting to connect to server...")
			if err := s.conn.Connect(ctx); err != nil {
				fmt.Fprintln(s.out, "\nUnable to connect to MCP server.")
				fmt.Fprint(s.out, "Proceed without financial tools? (yes/no): ")
				if !scanner.Scan() {
					fmt.Fprintln(s.out, "\nGoodbye!")
					return scanner.Err()
				}
				switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
				case "yes", "y":
					s.proceedWithoutTools = true
					fmt.Fprintln(s.out, "Continuing with general questions only...")
				default:
					fmt.Fprintln(s.out, "Please start the MCP server and try again.")
					continue
				}
			}
		}

		reply := s.agent.Respond(ctx, input)
		fmt.Fprintf(s.out, "\nClaude: %s\n\n", reply)
	}
}
