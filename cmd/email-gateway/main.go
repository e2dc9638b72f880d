package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/sungwon/email-gateway/internal/api"
	"github.com/sungwon/email-gateway/internal/config"
	"github.com/sungwon/email-gateway/internal/gateway"
	"github.com/sungwon/email-gateway/internal/logger"
	"github.com/sungwon/email-gateway/internal/smtpclient"
	"github.com/sungwon/email-gateway/internal/tools"
)

func main() {
	// Load configuration, optionally backed by a dotenv file
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewFromConfig(cfg.Logging)
	log.Info().Msg("starting email gateway")

	// Incomplete credentials are reported per tool call, not at startup,
	// so the server still boots and tells callers what is missing.
	if !cfg.Email.Complete() {
		log.Warn().Msg("email configuration incomplete; set EMAIL_FROM, SMTP_SERVER, SMTP_PORT, SMTP_USERNAME and SMTP_PASSWORD")
	}

	gw := gateway.New(cfg.Email, smtpclient.NetDialer{}, log)

	// MCP server over streamable HTTP
	mcpSrv := tools.NewServer(gw, log)
	streamSrv := mcpserver.NewStreamableHTTPServer(mcpSrv)

	mcpAddr := fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port)
	go func() {
		log.Info().Str("addr", mcpAddr).Msg("MCP server listening")
		if err := streamSrv.Start(mcpAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("mcp server error")
		}
	}()

	// Operational HTTP server (health, metrics)
	opsAddr := fmt.Sprintf(":%d", cfg.Ops.Port)
	opsSrv := &http.Server{
		Addr:         opsAddr,
		Handler:      api.NewRouter(log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", opsAddr).Msg("ops server listening")
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ops server error")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	// Graceful shutdown with 30-second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := streamSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mcp server forced to shutdown")
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
