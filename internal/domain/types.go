package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventKind represents the kind of ledger event
type EventKind string

const (
	KindMinted      EventKind = "minted"
	KindTransferred EventKind = "transferred"
)

// Event represents one immutable ledger occurrence for a tracked asset.
// The ID is derived from the transaction hash and log index, which makes it
// collision-free by construction and stable across overlapping fetch windows.
type Event struct {
	ID          string            `json:"id"`
	AssetID     uint64            `json:"asset_id"`
	Kind        EventKind         `json:"kind"`
	From        string            `json:"from"` // zero address for minted events
	To          string            `json:"to"`
	Timestamp   time.Time         `json:"timestamp"`    // block timestamp, not client-observed time
	BlockNumber uint64            `json:"block_number"` // not unique per event
	LogIndex    uint              `json:"log_index"`    // ordering tie-breaker within a block
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// NewEventID derives the canonical event ID from a transaction hash and log index
func NewEventID(txHash string, logIndex uint) string {
	return fmt.Sprintf("%s:%d", txHash, logIndex)
}

// Before reports whether e orders strictly before other under the composite
// (timestamp, blockNumber, logIndex) key. Distinct events can share a timestamp
// (same block), so ties are resolved deterministically rather than by arrival order.
func (e *Event) Before(other *Event) bool {
	if !e.Timestamp.Equal(other.Timestamp) {
		return e.Timestamp.Before(other.Timestamp)
	}
	if e.BlockNumber != other.BlockNumber {
		return e.BlockNumber < other.BlockNumber
	}
	return e.LogIndex < other.LogIndex
}

// SortEventsAscending sorts events in place by (timestamp, blockNumber, logIndex)
func SortEventsAscending(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Before(&events[j])
	})
}

// SortEventsDescending sorts events in place by the composite key, newest first
func SortEventsDescending(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		return events[j].Before(&events[i])
	})
}

// History is the derived, cached ownership view for one asset.
// It is computed on demand and never mutated in place; a recomputed History
// replaces the cached one atomically.
type History struct {
	AssetID       uint64  `json:"asset_id"`
	Events        []Event `json:"events"` // ascending by (timestamp, blockNumber, logIndex)
	CurrentOwner  string  `json:"current_owner"`
	Minter        string  `json:"minter"`
	TransferCount int     `json:"transfer_count"`
}

// MinterUnknown reports whether no mint event was observed for the asset.
// The zero-address minter is a data-quality signal, not a silent default.
func (h *History) MinterUnknown() bool {
	return h.Minter == ZeroAddress
}

// ActivityFeed is the derived, cross-asset recent-activity view.
// Events are ordered descending by the composite key and bounded to the
// requested limit.
type ActivityFeed struct {
	Events []Event `json:"events"`
	Limit  int     `json:"limit"`
}

// NormalizeAddress normalizes a hex address to its EIP-55 checksummed form
func NormalizeAddress(address string) string {
	return common.HexToAddress(address).Hex()
}
