package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/database"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/extraction"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/logger"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/metrics"
	"github.com/ZanzyTHEbar/food-chain-mcp-go/internal/server"
)

var (
	libsqlURL     = flag.String("libsql-url", "", "libSQL database URL (default: file:./food-chain.db)")
	authToken     = flag.String("auth-token", "", "Authentication token for remote databases")
	embeddingDims = flag.Int("embedding-dims", 0, "Embedding vector dimensions (default: EMBEDDING_DIMS or 4)")
	transport     = flag.String("transport", "stdio", "Transport to use: stdio or sse")
	addr          = flag.String("addr", ":8080", "Address to listen on when using SSE transport")
	sseEndpoint   = flag.String("sse-endpoint", "/sse", "SSE endpoint path when using SSE transport")
	logMode       = flag.String("log-mode", "production", "Logger mode: production or development")
)

func main() {
	flag.Parse()

	log, err := logger.New(*logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("received shutdown signal, closing server")
		cancel()
	}()

	config := database.NewConfig()

	// Initialize metrics (noop if disabled)
	metrics.InitFromEnv()

	// Override with command line flags if provided
	if *libsqlURL != "" {
		config.URL = *libsqlURL
	}
	if *authToken != "" {
		config.AuthToken = *authToken
	}
	if *embeddingDims > 0 {
		config.EmbeddingDims = *embeddingDims
	}

	db, err := database.NewDBManager(config, log)
	if err != nil {
		log.Fatal("failed to create database manager", "error", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", "error", err)
		}
	}()

	renderer := extraction.NewRendererFromEnv()
	extractor := extraction.NewExtractorFromEnv()
	mcpServer := server.NewMCPServer(db, log, renderer, extractor)

	log.Info("starting food chain MCP server", "transport", *transport, "url", config.URL)
	switch *transport {
	case "stdio":
		go func() {
			if err := mcpServer.Run(ctx); err != nil {
				log.Error("server error", "error", err)
			}
		}()
	case "sse":
		go func() {
			if err := mcpServer.RunSSE(ctx, *addr, *sseEndpoint); err != nil {
				log.Error("SSE server error", "error", err)
			}
		}()
	default:
		log.Fatal("unknown transport", "transport", *transport)
	}

	<-ctx.Done()

	log.Info("server stopped")
}
