package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apresai/blogimport/internal/config"
	"github.com/apresai/blogimport/internal/mcpserver"
	"github.com/apresai/blogimport/internal/observability"
)

func main() {
	logger := observability.InitLogger()

	logger.Info("Blog import MCP server starting...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := observability.InitTracer(ctx, "blogimport-mcp", "1.0.0")
	if err != nil {
		logger.Warn("Failed to init tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Tracer shutdown error", "error", err)
			}
		}()
	}

	cfg := config.DefaultConfig()
	if path := os.Getenv("BLOG_CONFIG"); path != "" {
		if cfg, err = config.LoadFile(cfg, path); err != nil {
			logger.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
	}

	srv, err := mcpserver.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received, waiting for active imports...")
		// Running jobs see the cancelled context and mark themselves failed.
		time.Sleep(3 * time.Second)
		if err := srv.Close(); err != nil {
			logger.Error("Store close error", "error", err)
		}
		logger.Info("Shutdown complete")
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
