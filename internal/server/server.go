// Package server wires the financial tools into an MCP server served
// over SSE/HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/finsight/finsight/internal/alphavantage"
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/middleware"
	"github.com/finsight/finsight/internal/tools"
)

const (
	serverName    = "finsight"
	serverVersion = "1.0.0"
)

type Server struct {
	cfg       *config.Config
	http      *http.Server
	toolNames []string
}

func New(cfg *config.Config) *Server {
	av := alphavantage.New(cfg.AlphaVantageAPIKey, cfg.AlphaVantageBaseURL)
	if !av.Configured() {
		log.Warn().Msg("ALPHA_VANTAGE_API_KEY not set - tools will report not configured")
	}

	mcpSrv := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
		mcpserver.WithRecovery(),
	)

	all := tools.All(av)
	names := make([]string, 0, len(all))
	for _, t := range all {
		registerTool(mcpSrv, t)
		names = append(names, t.Name)
		log.Info().Str("name", t.Name).Msg("registered tool")
	}

	sse := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/message"),
	)

	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:     r,
			ReadTimeout: 15 * time.Second,
			// No write timeout: /sse holds the response open for the
			// whole session.
			IdleTimeout: 120 * time.Second,
		},
		toolNames: names,
	}
}

// ToolNames lists the registered tool names in registration order.
func (s *Server) ToolNames() []string { return s.toolNames }

// Addr is the listen address.
func (s *Server) Addr() string { return s.http.Addr }

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info().Str("addr", s.http.Addr).Msg("MCP server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
		return nil
	case err := <-errCh:
		return err
	}
}
