package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/qyinm/storesearch/catalog"
	"github.com/qyinm/storesearch/logger"
	"github.com/qyinm/storesearch/mcpsrv"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := mcpsrv.LoadConfig()
	// stdout carries the protocol
	log, err := logger.New("stderr", cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	source := catalog.New(cfg.BaseURL,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithCacheSize(cfg.CacheSize),
		catalog.WithLogger(log),
	)
	server := mcpsrv.NewServer(source, version, &mcpsrv.ServerOptions{
		EnableAdmin: cfg.AdminEnabled(),
		APIKey:      cfg.APIKey,
		Logger:      log,
	})

	go mcpsrv.RunCacheClearer(ctx, source, cfg.CacheClearInterval, log)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal("stdio mcp server failed", zap.Error(err))
	}
}
