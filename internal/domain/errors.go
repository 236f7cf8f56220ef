package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when the ledger log source is still
	// unreachable after retries have been exhausted
	ErrSourceUnavailable = errors.New("ledger source unavailable")

	// ErrRangeTooLarge is returned when a query span exceeds the safety bound
	ErrRangeTooLarge = errors.New("block range too large")

	// ErrMalformedRecord is returned for a structurally malformed log record;
	// it is absorbed per record and never fails a batch
	ErrMalformedRecord = errors.New("malformed log record")

	// ErrNotFound is returned when no events exist for the requested asset
	ErrNotFound = errors.New("asset not found")
)

// DuplicateMintError signals a data-integrity condition: more than one minted
// event was observed for the same asset. Resolution policy is left to the
// caller rather than silently picking one.
type DuplicateMintError struct {
	AssetID uint64
	Count   int
}

func (e *DuplicateMintError) Error() string {
	return fmt.Sprintf("duplicate mint for asset %d: %d minted events observed", e.AssetID, e.Count)
}
