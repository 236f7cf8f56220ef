package activity

import (
	"github.com/feral-file/provenance-engine/internal/domain"
)

// Aggregate merges per-asset event sets into one recency-ordered feed bounded
// to limit items. Assets whose fetch failed are simply absent from the input;
// a single bad asset never blanks the feed. Duplicate observations of the same
// logical event are removed before ordering.
func Aggregate(eventSets [][]domain.Event, limit int) domain.ActivityFeed {
	seen := make(map[string]bool)
	var merged []domain.Event
	for _, set := range eventSets {
		for i := range set {
			if seen[set[i].ID] {
				continue
			}
			seen[set[i].ID] = true
			merged = append(merged, set[i])
		}
	}

	domain.SortEventsDescending(merged)

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	return domain.ActivityFeed{
		Events: merged,
		Limit:  limit,
	}
}
