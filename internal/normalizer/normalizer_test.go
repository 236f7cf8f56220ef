package normalizer_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/provenance-engine/internal/domain"
	"github.com/feral-file/provenance-engine/internal/normalizer"
)

var (
	testOwner    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testReceiver = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testTxHash   = common.HexToHash("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testTime     = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func assetIDTopic(assetID uint64) common.Hash {
	return common.BigToHash(new(big.Int).SetUint64(assetID))
}

// encodeMetadataURI ABI-encodes a single dynamic string the way the contract
// emits it in the minted record data
func encodeMetadataURI(t *testing.T, uri string) []byte {
	t.Helper()

	offset := common.LeftPadBytes(big.NewInt(32).Bytes(), 32)
	length := common.LeftPadBytes(big.NewInt(int64(len(uri))).Bytes(), 32)
	padded := common.RightPadBytes([]byte(uri), (len(uri)+31)/32*32)

	data := append(offset, length...)
	return append(data, padded...)
}

func TestNormalize_MintedRecord(t *testing.T) {
	vLog := types.Log{
		Topics: []common.Hash{
			normalizer.MintedEventSignature,
			addressTopic(testOwner),
			assetIDTopic(7),
		},
		Data:        encodeMetadataURI(t, "ipfs://QmExample"),
		BlockNumber: 100,
		TxHash:      testTxHash,
		Index:       3,
	}

	event, err := normalizer.Normalize(vLog, testTime)

	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.NewEventID(testTxHash.Hex(), 3), event.ID)
	assert.Equal(t, uint64(7), event.AssetID)
	assert.Equal(t, domain.KindMinted, event.Kind)
	assert.Equal(t, domain.ZeroAddress, event.From)
	assert.Equal(t, testOwner.Hex(), event.To)
	assert.Equal(t, testTime, event.Timestamp)
	assert.Equal(t, uint64(100), event.BlockNumber)
	assert.Equal(t, uint(3), event.LogIndex)
	assert.Equal(t, "ipfs://QmExample", event.Metadata["uri"])
}

func TestNormalize_MintedRecord_EmptyData(t *testing.T) {
	vLog := types.Log{
		Topics: []common.Hash{
			normalizer.MintedEventSignature,
			addressTopic(testOwner),
			assetIDTopic(7),
		},
		BlockNumber: 100,
		TxHash:      testTxHash,
		Index:       0,
	}

	event, err := normalizer.Normalize(vLog, testTime)

	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Nil(t, event.Metadata)
}

func TestNormalize_TransferRecord(t *testing.T) {
	vLog := types.Log{
		Topics: []common.Hash{
			normalizer.TransferEventSignature,
			addressTopic(testOwner),
			addressTopic(testReceiver),
			assetIDTopic(7),
		},
		BlockNumber: 150,
		TxHash:      testTxHash,
		Index:       1,
	}

	event, err := normalizer.Normalize(vLog, testTime)

	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.KindTransferred, event.Kind)
	assert.Equal(t, uint64(7), event.AssetID)
	assert.Equal(t, testOwner.Hex(), event.From)
	assert.Equal(t, testReceiver.Hex(), event.To)
}

func TestNormalize_TransferFromZeroAddress_Dropped(t *testing.T) {
	vLog := types.Log{
		Topics: []common.Hash{
			normalizer.TransferEventSignature,
			addressTopic(common.Address{}),
			addressTopic(testOwner),
			assetIDTopic(7),
		},
		BlockNumber: 100,
		TxHash:      testTxHash,
		Index:       2,
	}

	event, err := normalizer.Normalize(vLog, testTime)

	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestNormalize_MalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		vLog types.Log
	}{
		{
			name: "no topics",
			vLog: types.Log{},
		},
		{
			name: "unknown signature",
			vLog: types.Log{
				Topics: []common.Hash{common.HexToHash("0xdeadbeef")},
			},
		},
		{
			name: "minted with wrong topic count",
			vLog: types.Log{
				Topics: []common.Hash{
					normalizer.MintedEventSignature,
					addressTopic(testOwner),
				},
			},
		},
		{
			name: "fungible transfer with 3 topics",
			vLog: types.Log{
				Topics: []common.Hash{
					normalizer.TransferEventSignature,
					addressTopic(testOwner),
					addressTopic(testReceiver),
				},
			},
		},
		{
			name: "minted with undecodable data",
			vLog: types.Log{
				Topics: []common.Hash{
					normalizer.MintedEventSignature,
					addressTopic(testOwner),
					assetIDTopic(7),
				},
				Data: []byte{0x01, 0x02},
			},
		},
		{
			name: "asset id overflows uint64",
			vLog: types.Log{
				Topics: []common.Hash{
					normalizer.MintedEventSignature,
					addressTopic(testOwner),
					common.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := normalizer.Normalize(tt.vLog, testTime)

			assert.Nil(t, event)
			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
		})
	}
}
