package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/provenance-engine/internal/adapter"
	"github.com/feral-file/provenance-engine/internal/logger"
)

// HeadInfo represents the cached chain head
type HeadInfo struct {
	Number    uint64
	FetchedAt time.Time
}

// timestampEntry represents a cached timestamp for a specific block number
type timestampEntry struct {
	Timestamp time.Time
	CachedAt  time.Time
}

// Provider provides cached access to the chain head and to block timestamps.
// It reduces RPC calls to the log source by caching the head for a short TTL
// and block timestamps effectively forever (they are immutable once confirmed).
//
//go:generate mockgen -source=provider.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Provider=MockBlockProvider
type Provider interface {
	// LatestBlock returns the latest block number, potentially from cache
	LatestBlock(ctx context.Context) (uint64, error)

	// BlockTimestamp returns the timestamp for a given block number, potentially from cache
	BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Fetcher is the interface for fetching block information from the chain
//
//go:generate mockgen -source=provider.go -destination=../mocks/block_provider.go -package=mocks -mock_names=Fetcher=MockBlockFetcher
type Fetcher interface {
	// FetchLatestBlock fetches the latest block number from the chain
	FetchLatestBlock(ctx context.Context) (uint64, error)

	// FetchBlockTimestamp fetches the timestamp for a given block number
	FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)
}

// Config holds configuration for the block Provider
type Config struct {
	// HeadTTL is how long to cache the latest block number
	HeadTTL time.Duration

	// StaleWindow is how long stale cached data may be served if fetching fails.
	// Past this window a failed fetch is an error.
	StaleWindow time.Duration

	// TimestampTTL is how long to cache block timestamps.
	// Zero caches forever, which is the sensible default for confirmed blocks.
	TimestampTTL time.Duration
}

type provider struct {
	fetcher Fetcher
	config  Config
	clock   adapter.Clock

	mu         sync.RWMutex
	head       *HeadInfo
	timestamps map[uint64]*timestampEntry
}

// NewProvider creates a new block Provider with caching
func NewProvider(fetcher Fetcher, config Config, clock adapter.Clock) Provider {
	return &provider{
		fetcher:    fetcher,
		config:     config,
		clock:      clock,
		timestamps: make(map[uint64]*timestampEntry),
	}
}

// LatestBlock returns the latest block number, using cache if valid
func (p *provider) LatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.head
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.FetchedAt) < p.config.HeadTTL {
		logger.DebugCtx(ctx, "Using cached head", zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	blockNumber, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		// Fall back to stale cache within the stale window
		if cached != nil && now.Sub(cached.FetchedAt) < p.config.StaleWindow {
			logger.DebugCtx(ctx, "Using stale head", zap.Uint64("block_number", cached.Number))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	p.mu.Lock()
	p.head = &HeadInfo{
		Number:    blockNumber,
		FetchedAt: now,
	}
	p.mu.Unlock()

	return blockNumber, nil
}

// BlockTimestamp returns the timestamp for a given block number, using cache if valid
func (p *provider) BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	p.mu.RLock()
	cached := p.timestamps[blockNumber]
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && (p.config.TimestampTTL == 0 || now.Sub(cached.CachedAt) < p.config.TimestampTTL) {
		return cached.Timestamp, nil
	}

	logger.DebugCtx(ctx, "Fetching block timestamp from log source",
		zap.Uint64("block_number", blockNumber))
	timestamp, err := p.fetcher.FetchBlockTimestamp(ctx, blockNumber)
	if err != nil {
		if cached != nil && now.Sub(cached.CachedAt) < p.config.StaleWindow {
			return cached.Timestamp, nil
		}
		return time.Time{}, fmt.Errorf("failed to fetch timestamp for block %d and no valid cache available: %w", blockNumber, err)
	}

	p.mu.Lock()
	p.timestamps[blockNumber] = &timestampEntry{
		Timestamp: timestamp,
		CachedAt:  now,
	}
	p.mu.Unlock()

	return timestamp, nil
}
