package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dimiro1/banner"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/server"
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

	s := server.New(cfg)

	tpl := "{{ .Title \"FINSIGHT\" \"\" 0 }}\nFinance MCP Server (SSE Transport)\n"
	banner.Init(os.Stdout, true, false, bytes.NewBufferString(tpl))
	fmt.Printf("Server starting on http://%s\n", s.Addr())
	fmt.Printf("Available tools: %s\n", strings.Join(s.ToolNames(), ", "))
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed to start")
		os.Exit(1)
	}
	fmt.Println("Server stopped")
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
