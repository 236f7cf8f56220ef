package history

import (
	"github.com/feral-file/provenance-engine/internal/domain"
)

// Assemble merges a fetched event set into a History snapshot for one asset.
//
// The same logical event may be observed through overlapping fetch windows, so
// events are deduplicated by ID first. The resulting order is deterministic for
// a fixed input set regardless of arrival order. More than one minted event is
// a data-integrity condition reported as *domain.DuplicateMintError rather than
// silently resolved.
func Assemble(assetID uint64, events []domain.Event) (*domain.History, error) {
	deduped := dedupe(events)
	domain.SortEventsAscending(deduped)

	minter := domain.ZeroAddress
	mintCount := 0
	transferCount := 0
	for i := range deduped {
		switch deduped[i].Kind {
		case domain.KindMinted:
			mintCount++
			minter = deduped[i].To
		case domain.KindTransferred:
			transferCount++
		}
	}

	if mintCount > 1 {
		return nil, &domain.DuplicateMintError{AssetID: assetID, Count: mintCount}
	}

	currentOwner := minter
	if len(deduped) > 0 {
		currentOwner = deduped[len(deduped)-1].To
	}

	return &domain.History{
		AssetID:       assetID,
		Events:        deduped,
		CurrentOwner:  currentOwner,
		Minter:        minter,
		TransferCount: transferCount,
	}, nil
}

// dedupe returns the events with duplicate IDs removed, first observation wins
func dedupe(events []domain.Event) []domain.Event {
	seen := make(map[string]bool, len(events))
	result := make([]domain.Event, 0, len(events))
	for i := range events {
		if seen[events[i].ID] {
			continue
		}
		seen[events[i].ID] = true
		result = append(result, events[i])
	}
	return result
}
