package shell

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

type fakeConnector struct {
	tools          []mcp.Tool
	connectErr     error
	connectCalls   int
	toolsOnConnect []mcp.Tool
}

func (f *fakeConnector) Connect(ctx context.Context) error {
	f.connectCalls++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.tools = f.toolsOnConnect
	return nil
}

func (f *fakeConnector) Tools() []mcp.Tool { return f.tools }

type fakeResponder struct {
	replies  []string
	received []string
}

func (f *fakeResponder) Respond(ctx context.Context, msg string) string {
	f.received = append(f.received, msg)
	if len(f.replies) == 0 {
		return "ok"
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r
}

func runShell(t *testing.T, conn *fakeConnector, agent *fakeResponder, input string) string {
	t.Helper()
	s := New(conn, agent)
	var out bytes.Buffer
	s.in = strings.NewReader(input)
	s.out = &out
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestRun_QuitImmediately(t *testing.T) {
	conn := &fakeConnector{tools: []mcp.Tool{{Name: "get_stock_quote"}}}
	agent := &fakeResponder{}

	out := runShell(t, conn, agent, "quit\n")

	if len(agent.received) != 0 {
		t.Errorf("no model calls expected, got %v", agent.received)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("missing goodbye:\n%s", out)
	}
}

func TestRun_QuitVariants(t *testing.T) {
	for _, q := range []string{"quit", "exit", "q", "QUIT", "Exit", "Q"} {
		agent := &fakeResponder{}
		runShell(t, &fakeConnector{tools: []mcp.Tool{{Name: "t"}}}, agent, q+"\n")
		if len(agent.received) != 0 {
			t.Errorf("%q: no model calls expected", q)
		}
	}
}

func TestRun_EmptyInputIgnored(t *testing.T) {
	conn := &fakeConnector{tools: []mcp.Tool{{Name: "t"}}}
	agent := &fakeResponder{replies: []string{"answer"}}

	runShell(t, conn, agent, "\n   \nhello\nquit\n")

	if len(agent.received) != 1 || agent.received[0] != "hello" {
		t.Errorf("received = %v", agent.received)
	}
}

func TestRun_DispatchesAndPrintsReply(t *testing.T) {
	conn := &fakeConnector{tools: []mcp.Tool{{Name: "t"}}}
	agent := &fakeResponder{replies: []string{"Apple is at $150.00"}}

	out := runShell(t, conn, agent, "What's Apple's price?\nquit\n")

	if !strings.Contains(out, "Claude: Apple is at $150.00") {
		t.Errorf("reply not printed:\n%s", out)
	}
}

func TestRun_ReconnectsWhenNoTools(t *testing.T) {
	conn := &fakeConnector{toolsOnConnect: []mcp.Tool{{Name: "t"}}}
	agent := &fakeResponder{}

	runShell(t, conn, agent, "hello\nquit\n")

	if conn.connectCalls != 1 {
		t.Errorf("connect calls = %d", conn.connectCalls)
	}
	if len(agent.received) != 1 {
		t.Errorf("received = %v", agent.received)
	}
}

func TestRun_DeclineProceedSkipsTurn(t *testing.T) {
	conn := &fakeConnector{connectErr: errors.New("refused")}
	agent := &fakeResponder{}

	runShell(t, conn, agent, "hello\nno\nquit\n")

	if len(agent.received) != 0 {
		t.Errorf("turn should be skipped when declining, got %v", agent.received)
	}
}

func TestRun_ProceedWithoutToolsIsSticky(t *testing.T) {
	conn := &fakeConnector{connectErr: errors.New("refused")}
	agent := &fakeResponder{}

	runShell(t, conn, agent, "hello\nyes\nsecond question\nquit\n")

	// One reconnect attempt total: the choice is sticky.
	if conn.connectCalls != 1 {
		t.Errorf("connect calls = %d", conn.connectCalls)
	}
	if len(agent.received) != 2 {
		t.Errorf("received = %v", agent.received)
	}
}

func TestRun_EOFExitsCleanly(t *testing.T) {
	conn := &fakeConnector{tools: []mcp.Tool{{Name: "t"}}}
	agent := &fakeResponder{}

	out := runShell(t, conn, agent, "")
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("missing goodbye on EOF:\n%s", out)
	}
}
