package normalizer

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/feral-file/provenance-engine/internal/domain"
)

// Event signatures
var (
	// AssetMinted(address indexed owner, uint256 indexed assetId, string metadataURI)
	MintedEventSignature = crypto.Keccak256Hash([]byte("AssetMinted(address,uint256,string)"))

	// Transfer(address indexed from, address indexed to, uint256 indexed assetId)
	TransferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

// mintedDataArgs decodes the non-indexed metadata URI of a minted record
var mintedDataArgs = func() abi.Arguments {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err)
	}
	return abi.Arguments{{Name: "metadataURI", Type: stringType}}
}()

// Normalize maps a raw log record and its resolved block timestamp into a
// canonical Event. It is a pure function with no I/O.
//
// A transfer record whose `from` is the zero address is a mint observed through
// the generic transfer channel; it is dropped (nil, nil) so the same logical
// event cannot count as both minted and transferred. Structurally malformed
// records fail with domain.ErrMalformedRecord.
func Normalize(vLog types.Log, timestamp time.Time) (*domain.Event, error) {
	if len(vLog.Topics) == 0 {
		return nil, fmt.Errorf("%w: no topics", domain.ErrMalformedRecord)
	}

	event := &domain.Event{
		ID:          domain.NewEventID(vLog.TxHash.Hex(), vLog.Index),
		Timestamp:   timestamp,
		BlockNumber: vLog.BlockNumber,
		LogIndex:    vLog.Index,
	}

	switch vLog.Topics[0] {
	case MintedEventSignature:
		if len(vLog.Topics) != 3 {
			return nil, fmt.Errorf("%w: minted record expects 3 topics, got %d", domain.ErrMalformedRecord, len(vLog.Topics))
		}

		assetID, err := assetIDFromTopic(vLog.Topics[2])
		if err != nil {
			return nil, err
		}

		event.AssetID = assetID
		event.Kind = domain.KindMinted
		event.From = domain.ZeroAddress
		event.To = common.BytesToAddress(vLog.Topics[1].Bytes()).Hex()

		// Asset attributes are attached at mint time only
		if len(vLog.Data) > 0 {
			values, err := mintedDataArgs.Unpack(vLog.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: undecodable minted record data: %v", domain.ErrMalformedRecord, err)
			}
			if uri, ok := values[0].(string); ok && uri != "" {
				event.Metadata = map[string]string{"uri": uri}
			}
		}

	case TransferEventSignature:
		// The Transfer signature is shared with fungible ledgers, which carry
		// only 3 topics; those records are malformed for an asset ledger.
		if len(vLog.Topics) != 4 {
			return nil, fmt.Errorf("%w: transfer record expects 4 topics, got %d", domain.ErrMalformedRecord, len(vLog.Topics))
		}

		assetID, err := assetIDFromTopic(vLog.Topics[3])
		if err != nil {
			return nil, err
		}

		from := common.BytesToAddress(vLog.Topics[1].Bytes()).Hex()
		if from == domain.ZeroAddress {
			// Mint observed through the transfer channel; the minted record
			// carries the same logical event.
			return nil, nil
		}

		event.AssetID = assetID
		event.Kind = domain.KindTransferred
		event.From = from
		event.To = common.BytesToAddress(vLog.Topics[2].Bytes()).Hex()

	default:
		return nil, fmt.Errorf("%w: unknown event signature %s", domain.ErrMalformedRecord, vLog.Topics[0].Hex())
	}

	return event, nil
}

func assetIDFromTopic(topic common.Hash) (uint64, error) {
	id := new(big.Int).SetBytes(topic.Bytes())
	if !id.IsUint64() {
		return 0, fmt.Errorf("%w: asset id %s overflows uint64", domain.ErrMalformedRecord, id.String())
	}
	return id.Uint64(), nil
}
