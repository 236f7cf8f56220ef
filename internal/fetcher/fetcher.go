package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/provenance-engine/internal/adapter"
	"github.com/feral-file/provenance-engine/internal/block"
	"github.com/feral-file/provenance-engine/internal/domain"
	"github.com/feral-file/provenance-engine/internal/logger"
	"github.com/feral-file/provenance-engine/internal/metrics"
	"github.com/feral-file/provenance-engine/internal/normalizer"
)

// Filter bounds one fetch against the ledger log source
type Filter struct {
	// AssetID restricts the fetch to one asset; nil fetches all assets
	AssetID *uint64

	// Kinds restricts the fetched event kinds; empty fetches all kinds
	Kinds []domain.EventKind

	// FromBlock and ToBlock bound the query range. A nil FromBlock defaults to
	// the window behind head; a nil ToBlock defaults to the current head.
	FromBlock *uint64
	ToBlock   *uint64
}

// Result is one fetched, normalized event set
type Result struct {
	Events []domain.Event

	// Dropped counts events lost to failed per-event timestamp lookups.
	// It lets callers tell a degraded result apart from a truly empty one.
	Dropped int
}

// Config holds configuration for the log fetcher
type Config struct {
	// ContractAddress is the asset ledger contract
	ContractAddress string

	// WindowBlocks is how far behind head an unbounded fetch reaches.
	// Querying from genesis is a deliberate non-feature: first-load latency is
	// bounded at the cost of completeness, and full-history backfill is a
	// separate operation.
	WindowBlocks uint64

	// MaxRangeBlocks is the safety bound on one query span
	MaxRangeBlocks uint64

	// ChunkBlocks is the initial span of one FilterLogs call
	ChunkBlocks uint64

	// MinChunkBlocks is the floor for source-driven chunk halving
	MinChunkBlocks uint64

	// Workers bounds concurrent per-event timestamp lookups
	Workers int

	// MaxRetries bounds retry attempts for one transiently failing query
	MaxRetries uint64
}

const (
	DefaultWindowBlocks   = 14400 // roughly two days at 12s blocks
	DefaultMaxRangeBlocks = 100000
	DefaultChunkBlocks    = 3000
	DefaultMinChunkBlocks = 100
	DefaultWorkers        = 10
	DefaultMaxRetries     = 3
)

// Fetcher issues range-bounded, filtered queries against the ledger log source
//
//go:generate mockgen -source=fetcher.go -destination=../mocks/fetcher.go -package=mocks -mock_names=Fetcher=MockFetcher
type Fetcher interface {
	// FetchEvents returns the normalized events matching filter.
	// It fails with domain.ErrSourceUnavailable after retry exhaustion and
	// with domain.ErrRangeTooLarge when the span exceeds the safety bound.
	FetchEvents(ctx context.Context, filter Filter) (*Result, error)

	// OwnerOf reads the current owner of an asset directly from the contract
	OwnerOf(ctx context.Context, assetID uint64) (string, error)
}

type logFetcher struct {
	config   Config
	contract common.Address
	client   adapter.EthClient
	blocks   block.Provider
	clock    adapter.Clock
}

// New creates a log fetcher. Zero config fields fall back to defaults.
func New(config Config, client adapter.EthClient, blocks block.Provider, clock adapter.Clock) Fetcher {
	if config.WindowBlocks == 0 {
		config.WindowBlocks = DefaultWindowBlocks
	}
	if config.MaxRangeBlocks == 0 {
		config.MaxRangeBlocks = DefaultMaxRangeBlocks
	}
	if config.ChunkBlocks == 0 {
		config.ChunkBlocks = DefaultChunkBlocks
	}
	if config.MinChunkBlocks == 0 {
		config.MinChunkBlocks = DefaultMinChunkBlocks
	}
	if config.Workers == 0 {
		config.Workers = DefaultWorkers
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}

	return &logFetcher{
		config:   config,
		contract: common.HexToAddress(config.ContractAddress),
		client:   client,
		blocks:   blocks,
		clock:    clock,
	}
}

// FetchEvents returns the normalized events matching filter
func (f *logFetcher) FetchEvents(ctx context.Context, filter Filter) (*Result, error) {
	started := f.clock.Now()
	defer func() {
		metrics.FetchDuration.Observe(f.clock.Since(started).Seconds())
	}()

	fromBlock, toBlock, err := f.resolveRange(ctx, filter)
	if err != nil {
		return nil, err
	}

	queries := f.buildQueries(filter, fromBlock, toBlock)

	// Execute all sub-queries in parallel. A failed sub-query fails the whole
	// call: a history missing its mint or a slice of its transfers would be
	// corrupt, not degraded.
	type queryResult struct {
		logs []types.Log
		err  error
	}
	resultsCh := make(chan queryResult, len(queries))
	for _, q := range queries {
		go func(query ethereum.FilterQuery) {
			logs, err := f.fetchRange(ctx, query)
			resultsCh <- queryResult{logs: logs, err: err}
		}(q)
	}

	var allLogs []types.Log
	for range queries {
		result := <-resultsCh
		if result.err != nil {
			return nil, result.err
		}
		allLogs = append(allLogs, result.logs...)
	}

	return f.resolveAndNormalize(ctx, allLogs)
}

// resolveRange computes the effective block range for filter
func (f *logFetcher) resolveRange(ctx context.Context, filter Filter) (uint64, uint64, error) {
	var toBlock uint64
	if filter.ToBlock != nil {
		toBlock = *filter.ToBlock
	} else {
		head, err := f.blocks.LatestBlock(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
		}
		toBlock = head
	}

	var fromBlock uint64
	if filter.FromBlock != nil {
		fromBlock = *filter.FromBlock
	} else if toBlock > f.config.WindowBlocks {
		fromBlock = toBlock - f.config.WindowBlocks
	}

	if fromBlock > toBlock {
		return 0, 0, fmt.Errorf("invalid block range %d-%d", fromBlock, toBlock)
	}
	if toBlock-fromBlock > f.config.MaxRangeBlocks {
		return 0, 0, fmt.Errorf("%w: span %d exceeds %d blocks", domain.ErrRangeTooLarge, toBlock-fromBlock, f.config.MaxRangeBlocks)
	}

	return fromBlock, toBlock, nil
}

// buildQueries maps filter onto topic-filtered queries. The asset id sits at a
// different topic position for minted and transferred records, so an
// asset-scoped fetch needs one query per kind; an unscoped fetch covers both
// shapes in a single query.
func (f *logFetcher) buildQueries(filter Filter, fromBlock, toBlock uint64) []ethereum.FilterQuery {
	kinds := filter.Kinds
	if len(kinds) == 0 {
		kinds = []domain.EventKind{domain.KindMinted, domain.KindTransferred}
	}

	base := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{f.contract},
	}

	if filter.AssetID == nil {
		signatures := make([]common.Hash, 0, len(kinds))
		for _, kind := range kinds {
			switch kind {
			case domain.KindMinted:
				signatures = append(signatures, normalizer.MintedEventSignature)
			case domain.KindTransferred:
				signatures = append(signatures, normalizer.TransferEventSignature)
			}
		}
		query := base
		query.Topics = [][]common.Hash{signatures}
		return []ethereum.FilterQuery{query}
	}

	assetIDHash := common.BigToHash(new(big.Int).SetUint64(*filter.AssetID))
	queries := make([]ethereum.FilterQuery, 0, len(kinds))
	for _, kind := range kinds {
		query := base
		switch kind {
		case domain.KindMinted:
			// AssetMinted(owner, assetId): asset id is topic[2]
			query.Topics = [][]common.Hash{{normalizer.MintedEventSignature}, nil, {assetIDHash}}
		case domain.KindTransferred:
			// Transfer(from, to, assetId): asset id is topic[3]
			query.Topics = [][]common.Hash{{normalizer.TransferEventSignature}, nil, nil, {assetIDHash}}
		}
		queries = append(queries, query)
	}
	return queries
}

// fetchRange retrieves all logs for query, chunking the span and halving the
// chunk size when the source reports too many results
func (f *logFetcher) fetchRange(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	fromBlock := query.FromBlock.Uint64()
	toBlock := query.ToBlock.Uint64()
	chunk := f.config.ChunkBlocks

	var allLogs []types.Log
	current := fromBlock
	for current <= toBlock {
		end := current + chunk - 1
		if end > toBlock {
			end = toBlock
		}

		chunkQuery := query
		chunkQuery.FromBlock = new(big.Int).SetUint64(current)
		chunkQuery.ToBlock = new(big.Int).SetUint64(end)

		logs, err := f.filterLogsWithRetry(ctx, chunkQuery)
		if err != nil {
			if isTooManyResultsError(err) {
				chunk = chunk / 2
				if chunk < f.config.MinChunkBlocks {
					return nil, fmt.Errorf("%w: source rejects spans below %d blocks", domain.ErrRangeTooLarge, f.config.MinChunkBlocks)
				}
				logger.WarnCtx(ctx, "Too many results, reducing chunk size",
					zap.Uint64("new_chunk_blocks", chunk),
					zap.Uint64("from_block", current),
					zap.Uint64("to_block", end))
				continue
			}
			return nil, err
		}

		allLogs = append(allLogs, logs...)
		current = end + 1
	}

	return allLogs, nil
}

// filterLogsWithRetry issues one FilterLogs call with bounded exponential
// backoff on transient failures
func (f *logFetcher) filterLogsWithRetry(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log

	operation := func() error {
		metrics.FetchQueries.Inc()
		result, err := f.client.FilterLogs(ctx, query)
		if err != nil {
			// Too-many-results is handled by chunk halving, not by retrying
			if isTooManyResultsError(err) {
				return backoff.Permanent(err)
			}
			metrics.FetchRetries.Inc()
			logger.WarnCtx(ctx, "Log query failed, retrying",
				zap.Error(err),
				zap.Uint64("from_block", query.FromBlock.Uint64()),
				zap.Uint64("to_block", query.ToBlock.Uint64()))
			return err
		}
		logs = result
		return nil
	}

	b := backoff.NewExponentialBackOff()
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, f.config.MaxRetries), ctx)); err != nil {
		if isTooManyResultsError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	return logs, nil
}

// resolveAndNormalize resolves block timestamps for all logs concurrently and
// maps them to canonical events. A failed individual lookup drops that event
// from the result set but never fails the batch.
func (f *logFetcher) resolveAndNormalize(ctx context.Context, logs []types.Log) (*Result, error) {
	events := make([]*domain.Event, len(logs))
	errs := make([]error, len(logs))

	pool := pond.NewPool(f.config.Workers, pond.WithContext(ctx))
	for i, vLog := range logs {
		pool.Submit(func() {
			timestamp, err := f.blocks.BlockTimestamp(ctx, vLog.BlockNumber)
			if err != nil {
				errs[i] = err
				return
			}
			events[i], errs[i] = normalizer.Normalize(vLog, timestamp)
		})
	}
	pool.StopAndWait()

	// A canceled pool discards pending tasks without recording a per-slot
	// error, which is indistinguishable from an intentional normalizer drop.
	// A truncated batch must fail, not pass for a complete one.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	result := &Result{Events: make([]domain.Event, 0, len(logs))}
	for i := range logs {
		switch {
		case errs[i] == nil:
			// A nil event without error is a record the normalizer dropped on
			// purpose (mint observed through the transfer channel)
			if events[i] != nil {
				result.Events = append(result.Events, *events[i])
			}
		case errors.Is(errs[i], domain.ErrMalformedRecord):
			metrics.MalformedRecords.Inc()
			logger.WarnCtx(ctx, "Skipping malformed log record",
				zap.Error(errs[i]),
				zap.String("tx_hash", logs[i].TxHash.Hex()),
				zap.Uint("log_index", logs[i].Index))
		default:
			result.Dropped++
			metrics.DroppedLookups.Inc()
			logger.WarnCtx(ctx, "Dropping event after failed timestamp lookup",
				zap.Error(errs[i]),
				zap.Uint64("block_number", logs[i].BlockNumber),
				zap.String("tx_hash", logs[i].TxHash.Hex()))
		}
	}

	return result, nil
}

// isTooManyResultsError checks if the error is related to too many results
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum")
}
