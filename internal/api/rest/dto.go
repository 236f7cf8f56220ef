package rest

import (
	"time"

	"github.com/feral-file/provenance-engine/internal/domain"
)

// eventDTO is the wire shape of one ledger event
type eventDTO struct {
	ID          string            `json:"id"`
	AssetID     uint64            `json:"asset_id"`
	Kind        domain.EventKind  `json:"kind"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Timestamp   time.Time         `json:"timestamp"`
	BlockNumber uint64            `json:"block_number"`
	LogIndex    uint              `json:"log_index"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// historyResponse is the wire shape of one History snapshot
type historyResponse struct {
	AssetID       uint64     `json:"asset_id"`
	Events        []eventDTO `json:"events"`
	CurrentOwner  string     `json:"current_owner"`
	Minter        string     `json:"minter"`
	MinterUnknown bool       `json:"minter_unknown,omitempty"`
	TransferCount int        `json:"transfer_count"`
}

// activityResponse is the wire shape of the recent-activity feed
type activityResponse struct {
	Events []eventDTO `json:"events"`
	Limit  int        `json:"limit"`
}

// ownerResponse is the wire shape of a direct ownership read
type ownerResponse struct {
	AssetID uint64 `json:"asset_id"`
	Owner   string `json:"owner"`
}

func toEventDTO(event *domain.Event) eventDTO {
	return eventDTO{
		ID:          event.ID,
		AssetID:     event.AssetID,
		Kind:        event.Kind,
		From:        event.From,
		To:          event.To,
		Timestamp:   event.Timestamp,
		BlockNumber: event.BlockNumber,
		LogIndex:    event.LogIndex,
		Metadata:    event.Metadata,
	}
}

func toEventDTOs(events []domain.Event) []eventDTO {
	dtos := make([]eventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, toEventDTO(&events[i]))
	}
	return dtos
}

func toHistoryResponse(snapshot *domain.History) historyResponse {
	return historyResponse{
		AssetID:       snapshot.AssetID,
		Events:        toEventDTOs(snapshot.Events),
		CurrentOwner:  snapshot.CurrentOwner,
		Minter:        snapshot.Minter,
		MinterUnknown: snapshot.MinterUnknown(),
		TransferCount: snapshot.TransferCount,
	}
}

func toActivityResponse(feed domain.ActivityFeed) activityResponse {
	return activityResponse{
		Events: toEventDTOs(feed.Events),
		Limit:  feed.Limit,
	}
}
