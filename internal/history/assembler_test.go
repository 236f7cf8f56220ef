package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/provenance-engine/internal/domain"
	"github.com/feral-file/provenance-engine/internal/history"
)

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
	addrC = "0x3333333333333333333333333333333333333333"
)

func eventAt(id string, kind domain.EventKind, from, to string, block uint64, logIndex uint) domain.Event {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Event{
		ID:          id,
		AssetID:     7,
		Kind:        kind,
		From:        from,
		To:          to,
		Timestamp:   base.Add(time.Duration(block) * 12 * time.Second),
		BlockNumber: block,
		LogIndex:    logIndex,
	}
}

func TestAssemble_MintAndTransfers(t *testing.T) {
	events := []domain.Event{
		eventAt("tx1:0", domain.KindMinted, domain.ZeroAddress, addrA, 100, 0),
		eventAt("tx2:0", domain.KindTransferred, addrA, addrB, 150, 0),
		eventAt("tx3:0", domain.KindTransferred, addrB, addrC, 200, 0),
	}

	h, err := history.Assemble(7, events)

	require.NoError(t, err)
	assert.Equal(t, uint64(7), h.AssetID)
	assert.Len(t, h.Events, 3)
	assert.Equal(t, addrA, h.Minter)
	assert.Equal(t, addrC, h.CurrentOwner)
	assert.Equal(t, 2, h.TransferCount)
	assert.False(t, h.MinterUnknown())
}

func TestAssemble_DeterministicRegardlessOfArrivalOrder(t *testing.T) {
	ordered := []domain.Event{
		eventAt("tx1:0", domain.KindMinted, domain.ZeroAddress, addrA, 100, 0),
		eventAt("tx2:0", domain.KindTransferred, addrA, addrB, 150, 0),
		eventAt("tx3:0", domain.KindTransferred, addrB, addrC, 200, 0),
	}
	shuffled := []domain.Event{ordered[2], ordered[0], ordered[1]}

	h1, err1 := history.Assemble(7, ordered)
	h2, err2 := history.Assemble(7, shuffled)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, h1, h2)
}

func TestAssemble_DeduplicatesOverlappingWindows(t *testing.T) {
	mint := eventAt("tx1:0", domain.KindMinted, domain.ZeroAddress, addrA, 100, 0)
	transfer := eventAt("tx2:0", domain.KindTransferred, addrA, addrB, 150, 0)

	h, err := history.Assemble(7, []domain.Event{mint, transfer, mint, transfer})

	require.NoError(t, err)
	assert.Len(t, h.Events, 2)
	assert.Equal(t, 1, h.TransferCount)
	assert.Equal(t, addrB, h.CurrentOwner)
}

func TestAssemble_DuplicateMint(t *testing.T) {
	events := []domain.Event{
		eventAt("tx1:0", domain.KindMinted, domain.ZeroAddress, addrA, 100, 0),
		eventAt("tx2:0", domain.KindMinted, domain.ZeroAddress, addrB, 120, 0),
	}

	h, err := history.Assemble(7, events)

	assert.Nil(t, h)
	var dupErr *domain.DuplicateMintError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, uint64(7), dupErr.AssetID)
	assert.Equal(t, 2, dupErr.Count)
}

func TestAssemble_TransfersWithoutMint(t *testing.T) {
	events := []domain.Event{
		eventAt("tx2:0", domain.KindTransferred, addrA, addrB, 150, 0),
	}

	h, err := history.Assemble(7, events)

	require.NoError(t, err)
	assert.True(t, h.MinterUnknown())
	assert.Equal(t, addrB, h.CurrentOwner)
	assert.Equal(t, 1, h.TransferCount)
}

func TestAssemble_SameBlockOrderedByLogIndex(t *testing.T) {
	// A mint and an immediate transfer in the same block share a timestamp;
	// the log index decides who owns the asset afterwards.
	mint := eventAt("tx1:0", domain.KindMinted, domain.ZeroAddress, addrA, 100, 0)
	transfer := eventAt("tx1:1", domain.KindTransferred, addrA, addrB, 100, 1)

	h, err := history.Assemble(7, []domain.Event{transfer, mint})

	require.NoError(t, err)
	assert.Equal(t, "tx1:0", h.Events[0].ID)
	assert.Equal(t, "tx1:1", h.Events[1].ID)
	assert.Equal(t, addrB, h.CurrentOwner)
}

func TestAssemble_EmptyInput(t *testing.T) {
	h, err := history.Assemble(7, nil)

	require.NoError(t, err)
	assert.Empty(t, h.Events)
	assert.True(t, h.MinterUnknown())
	assert.Equal(t, domain.ZeroAddress, h.CurrentOwner)
	assert.Equal(t, 0, h.TransferCount)
}
