package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mcpsrv.NewMux(server, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	}()

	log.Info("storesearch-mcp listening",
		zap.String("addr", httpServer.Addr),
		zap.String("base_url", source.BaseURL()),
		zap.Bool("admin", cfg.AdminEnabled()),
		zap.Bool("stateless", cfg.Stateless))
	err = httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
}
