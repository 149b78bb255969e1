package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/paracurve/claimdesk/internal/config"
	"github.com/paracurve/claimdesk/internal/stubapi"
	"github.com/paracurve/claimdesk/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting claimdesk stub backend",
		zap.String("host", cfg.Stub.Host),
		zap.Int("port", cfg.Stub.Port),
		zap.Bool("seed", cfg.Stub.Seed))

	server := stubapi.NewServer(stubapi.Config{
		Host:         cfg.Stub.Host,
		Port:         cfg.Stub.Port,
		Seed:         cfg.Stub.Seed,
		ReadTimeout:  cfg.Stub.ReadTimeout,
		WriteTimeout: cfg.Stub.WriteTimeout,
	}, logger)

	// Serve until interrupted, then drain in-flight requests
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("Stub backend failed", zap.Error(err))
	}

	logger.Info("Stub backend exited")
}
