package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/provenance-engine/internal/domain"
)

func TestNewEventID(t *testing.T) {
	id := domain.NewEventID("0xabc123", 7)
	assert.Equal(t, "0xabc123:7", id)
}

func TestEvent_Before_OrdersByTimestampFirst(t *testing.T) {
	earlier := domain.Event{
		Timestamp:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BlockNumber: 200,
		LogIndex:    5,
	}
	later := domain.Event{
		Timestamp:   time.Date(2024, 1, 1, 0, 0, 12, 0, time.UTC),
		BlockNumber: 100,
		LogIndex:    0,
	}

	assert.True(t, earlier.Before(&later))
	assert.False(t, later.Before(&earlier))
}

func TestEvent_Before_TiesBrokenByBlockThenLogIndex(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sameBlockLowerIndex := domain.Event{Timestamp: ts, BlockNumber: 100, LogIndex: 1}
	sameBlockHigherIndex := domain.Event{Timestamp: ts, BlockNumber: 100, LogIndex: 4}
	laterBlock := domain.Event{Timestamp: ts, BlockNumber: 101, LogIndex: 0}

	assert.True(t, sameBlockLowerIndex.Before(&sameBlockHigherIndex))
	assert.True(t, sameBlockHigherIndex.Before(&laterBlock))
	assert.False(t, laterBlock.Before(&sameBlockLowerIndex))
}

func TestEvent_Before_EqualKeysNotBefore(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := domain.Event{Timestamp: ts, BlockNumber: 100, LogIndex: 2}
	b := domain.Event{Timestamp: ts, BlockNumber: 100, LogIndex: 2}

	assert.False(t, a.Before(&b))
	assert.False(t, b.Before(&a))
}

func TestSortEventsAscending(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{ID: "c", Timestamp: ts.Add(time.Minute), BlockNumber: 105, LogIndex: 0},
		{ID: "a", Timestamp: ts, BlockNumber: 100, LogIndex: 0},
		{ID: "b", Timestamp: ts, BlockNumber: 100, LogIndex: 3},
	}

	domain.SortEventsAscending(events)

	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	assert.Equal(t, "c", events[2].ID)
}

func TestSortEventsDescending(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []domain.Event{
		{ID: "a", Timestamp: ts, BlockNumber: 100, LogIndex: 0},
		{ID: "c", Timestamp: ts.Add(time.Minute), BlockNumber: 105, LogIndex: 0},
		{ID: "b", Timestamp: ts, BlockNumber: 100, LogIndex: 3},
	}

	domain.SortEventsDescending(events)

	assert.Equal(t, "c", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	assert.Equal(t, "a", events[2].ID)
}

func TestHistory_MinterUnknown(t *testing.T) {
	unknown := domain.History{Minter: domain.ZeroAddress}
	known := domain.History{Minter: "0x1111111111111111111111111111111111111111"}

	assert.True(t, unknown.MinterUnknown())
	assert.False(t, known.MinterUnknown())
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase to checksummed",
			input:    "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
			expected: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			name:     "already checksummed",
			input:    "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			expected: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		},
		{
			name:     "zero address",
			input:    "0x0000000000000000000000000000000000000000",
			expected: domain.ZeroAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeAddress(tt.input))
		})
	}
}
