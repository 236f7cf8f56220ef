package block

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/feral-file/provenance-engine/internal/adapter"
)

// ethereumFetcher implements Fetcher on top of an Ethereum JSON-RPC client
type ethereumFetcher struct {
	client adapter.EthClient
}

// NewEthereumFetcher creates a Fetcher backed by the given Ethereum client
func NewEthereumFetcher(client adapter.EthClient) Fetcher {
	return &ethereumFetcher{client: client}
}

// FetchLatestBlock fetches the latest block number from the chain
func (f *ethereumFetcher) FetchLatestBlock(ctx context.Context) (uint64, error) {
	header, err := f.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return header.Number.Uint64(), nil
}

// FetchBlockTimestamp fetches the timestamp for a given block number
func (f *ethereumFetcher) FetchBlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := f.client.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get block %d: %w", blockNumber, err)
	}
	return time.Unix(int64(header.Time), 0), nil //nolint:gosec,G115 // header.Time is a uint64 from geth which is safe to cast
}
