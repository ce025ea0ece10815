package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimiro1/banner"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/agent"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/mcpclient"
	"github.com/finsight/finsight/internal/shell"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	// Missing LLM key is the one fatal configuration error.
	if cfg.AnthropicAPIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: ANTHROPIC_API_KEY not found in environment variables")
		fmt.Fprintln(os.Stderr, "Please add your Anthropic API key to the .env file")
		os.Exit(1)
	}

	tpl := "{{ .Title \"FINSIGHT\" \"\" 0 }}\nFinance Analyzer with MCP Integration\n"
	banner.Init(os.Stdout, true, false, bytes.NewBufferString(tpl))

	conn := mcpclient.New(cfg)
	orch := agent.New(cfg, conn)

	// Exit 0 on interrupt: errors and interrupts are reported to the user,
	// not through the process exit code. The connection is owned by the
	// main goroutine; the handler must not touch it mid-operation.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	ctx := context.Background()
	if err := conn.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("initial connection failed")
		fmt.Println("Unable to connect to MCP server.")
		fmt.Println("Troubleshooting:")
		fmt.Printf("  1. Make sure the MCP server is running: finsight-server\n")
		fmt.Printf("  2. Check that the server is accessible at %s\n", cfg.ServerURL)
		fmt.Println("You can still ask general questions; the shell will retry the connection.")
	}

	if err := shell.New(conn, orch).Run(ctx); err != nil {
		// Input errors end the session, never the process status.
		log.Warn().Err(err).Msg("input error")
	}

	conn.Close()
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
