package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/provenance-engine/internal/adapter"
	"github.com/feral-file/provenance-engine/internal/api/server"
	"github.com/feral-file/provenance-engine/internal/block"
	"github.com/feral-file/provenance-engine/internal/config"
	"github.com/feral-file/provenance-engine/internal/fetcher"
	"github.com/feral-file/provenance-engine/internal/logger"
	"github.com/feral-file/provenance-engine/internal/service"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "provenance-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting provenance engine API")

	clock := adapter.NewClock()

	// Connect to the ledger log source
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to Ethereum RPC", zap.Error(err))
	}
	defer ethClient.Close()
	logger.InfoCtx(ctx, "Connected to ledger log source",
		zap.String("contract", cfg.Ethereum.ContractAddress),
	)

	// Block head and timestamp provider
	blockProvider := block.NewProvider(
		block.NewEthereumFetcher(ethClient),
		block.Config{
			HeadTTL:      cfg.Ethereum.BlockHeadTTL,
			StaleWindow:  cfg.Ethereum.BlockHeadStaleWindow,
			TimestampTTL: cfg.Ethereum.BlockTimestampTTL,
		},
		clock,
	)

	// Log fetcher
	logFetcher := fetcher.New(
		fetcher.Config{
			ContractAddress: cfg.Ethereum.ContractAddress,
			WindowBlocks:    cfg.Ethereum.WindowBlocks,
			MaxRangeBlocks:  cfg.Ethereum.MaxRangeBlocks,
			ChunkBlocks:     cfg.Ethereum.ChunkBlocks,
			MinChunkBlocks:  cfg.Ethereum.MinChunkBlocks,
			Workers:         cfg.Worker.PoolSize,
			MaxRetries:      cfg.Ethereum.MaxRetries,
		},
		ethClient,
		blockProvider,
		clock,
	)

	// Provenance service with snapshot caches
	provenance := service.New(
		service.Config{
			HistoryTTL:           cfg.Cache.HistoryTTL,
			ActivityTTL:          cfg.Cache.ActivityTTL,
			DefaultActivityLimit: cfg.Cache.DefaultActivityLimit,
		},
		logFetcher,
		clock,
	)
	provenance.StartJanitors(ctx, cfg.Cache.PruneInterval)

	// HTTP server
	srv := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, provenance)

	go func() {
		if err := srv.Start(); err != nil {
			logger.FatalCtx(ctx, "Failed to start server", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.InfoCtx(ctx, "Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorCtx(ctx, err)
	}
}
