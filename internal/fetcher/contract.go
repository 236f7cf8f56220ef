package fetcher

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// OwnerOf reads the current owner of an asset directly from the ledger
// contract. It bypasses any fetched history, which makes it suitable as a
// cross-check right after a locally-initiated transfer.
func (f *logFetcher) OwnerOf(ctx context.Context, assetID uint64) (string, error) {
	// ownerOf function signature: ownerOf(uint256) returns (address)
	ownerOfABI, err := abi.JSON(strings.NewReader(`[{"constant":true,"inputs":[{"name":"assetId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	data, err := ownerOfABI.Pack("ownerOf", new(big.Int).SetUint64(assetID))
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	result, err := f.client.CallContract(ctx, ethereum.CallMsg{
		To:   &f.contract,
		Data: data,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	var owner common.Address
	if err := ownerOfABI.UnpackIntoInterface(&owner, "ownerOf", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return owner.Hex(), nil
}
