package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/provenance-engine/internal/activity"
	"github.com/feral-file/provenance-engine/internal/adapter"
	"github.com/feral-file/provenance-engine/internal/cache"
	"github.com/feral-file/provenance-engine/internal/domain"
	"github.com/feral-file/provenance-engine/internal/fetcher"
	"github.com/feral-file/provenance-engine/internal/history"
	"github.com/feral-file/provenance-engine/internal/logger"
	"github.com/feral-file/provenance-engine/internal/metrics"
)

// Config holds configuration for the provenance service
type Config struct {
	// HistoryTTL is how long a computed History snapshot stays live
	HistoryTTL time.Duration

	// ActivityTTL is how long a computed activity feed stays live
	ActivityTTL time.Duration

	// DefaultActivityLimit bounds the feed when the caller passes no limit
	DefaultActivityLimit int
}

const (
	DefaultSnapshotTTL   = 5 * time.Minute
	DefaultActivityLimit = 10
)

// Service is the public provenance façade. Both read operations are
// cache-or-compute and never mutate ledger state.
//
//go:generate mockgen -source=service.go -destination=../mocks/service.go -package=mocks -mock_names=Service=MockService
type Service interface {
	// GetHistory returns the ownership history snapshot for one asset
	GetHistory(ctx context.Context, assetID uint64) (*domain.History, error)

	// GetRecentActivity returns the cross-asset recent-activity feed
	GetRecentActivity(ctx context.Context, limit int) (domain.ActivityFeed, error)

	// GetCurrentOwner reads ownership directly from the contract, bypassing
	// both the cache and fetched history
	GetCurrentOwner(ctx context.Context, assetID uint64) (string, error)

	// Invalidate forces the next history read for the asset to bypass the
	// cache, e.g. after a locally-initiated transfer
	Invalidate(assetID uint64)

	// StartJanitors starts the periodic prune loops for the snapshot caches;
	// they stop when the context is canceled
	StartJanitors(ctx context.Context, interval time.Duration)
}

type provenanceService struct {
	config    Config
	fetcher   fetcher.Fetcher
	histories *cache.Cache[*domain.History]
	feeds     *cache.Cache[domain.ActivityFeed]
}

// New creates a provenance service. Zero config fields fall back to defaults.
func New(config Config, f fetcher.Fetcher, clock adapter.Clock) Service {
	if config.HistoryTTL == 0 {
		config.HistoryTTL = DefaultSnapshotTTL
	}
	if config.ActivityTTL == 0 {
		config.ActivityTTL = DefaultSnapshotTTL
	}
	if config.DefaultActivityLimit == 0 {
		config.DefaultActivityLimit = DefaultActivityLimit
	}

	return &provenanceService{
		config:    config,
		fetcher:   f,
		histories: cache.New[*domain.History](config.HistoryTTL, clock),
		feeds:     cache.New[domain.ActivityFeed](config.ActivityTTL, clock),
	}
}

// GetHistory returns the ownership history snapshot for one asset
func (s *provenanceService) GetHistory(ctx context.Context, assetID uint64) (*domain.History, error) {
	snapshot, hit, err := s.histories.GetOrCompute(ctx, historyKey(assetID), func(ctx context.Context) (*domain.History, error) {
		result, fetchErr := s.fetcher.FetchEvents(ctx, fetcher.Filter{AssetID: &assetID})
		if fetchErr != nil {
			return nil, fetchErr
		}
		if len(result.Events) == 0 {
			if result.Dropped > 0 {
				// Every observed event was lost to failed lookups; an empty
				// History here would misreport a fetch failure as absence
				return nil, fmt.Errorf("%w: all %d observed events dropped", domain.ErrSourceUnavailable, result.Dropped)
			}
			return nil, fmt.Errorf("%w: asset %d", domain.ErrNotFound, assetID)
		}
		return history.Assemble(assetID, result.Events)
	})
	metrics.SnapshotRequests.WithLabelValues("history", outcome(hit, err)).Inc()
	return snapshot, err
}

// GetRecentActivity returns the cross-asset recent-activity feed.
// It uses one shared recent-window fetch rather than one fetch per asset.
func (s *provenanceService) GetRecentActivity(ctx context.Context, limit int) (domain.ActivityFeed, error) {
	if limit <= 0 {
		limit = s.config.DefaultActivityLimit
	}

	feed, hit, err := s.feeds.GetOrCompute(ctx, activityKey(limit), func(ctx context.Context) (domain.ActivityFeed, error) {
		result, fetchErr := s.fetcher.FetchEvents(ctx, fetcher.Filter{})
		if fetchErr != nil {
			return domain.ActivityFeed{}, fetchErr
		}
		if result.Dropped > 0 {
			logger.WarnCtx(ctx, "Recent-activity feed degraded by dropped events",
				zap.Int("dropped", result.Dropped))
		}
		return activity.Aggregate(groupByAsset(result.Events), limit), nil
	})
	metrics.SnapshotRequests.WithLabelValues("activity", outcome(hit, err)).Inc()
	return feed, err
}

// GetCurrentOwner reads ownership directly from the contract
func (s *provenanceService) GetCurrentOwner(ctx context.Context, assetID uint64) (string, error) {
	owner, err := s.fetcher.OwnerOf(ctx, assetID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return owner, nil
}

// Invalidate forces the next history read for the asset to bypass the cache
func (s *provenanceService) Invalidate(assetID uint64) {
	s.histories.Invalidate(historyKey(assetID))
}

// StartJanitors starts the periodic prune loops for the snapshot caches
func (s *provenanceService) StartJanitors(ctx context.Context, interval time.Duration) {
	go s.histories.Janitor(ctx, interval)
	go s.feeds.Janitor(ctx, interval)
}

// outcome labels one snapshot read for metrics
func outcome(hit bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case hit:
		return "hit"
	default:
		return "miss"
	}
}

func historyKey(assetID uint64) string {
	return fmt.Sprintf("history:%d", assetID)
}

func activityKey(limit int) string {
	return fmt.Sprintf("activity:%d", limit)
}

// groupByAsset splits a flat event set into per-asset sets
func groupByAsset(events []domain.Event) [][]domain.Event {
	byAsset := make(map[uint64][]domain.Event)
	for i := range events {
		byAsset[events[i].AssetID] = append(byAsset[events[i].AssetID], events[i])
	}

	sets := make([][]domain.Event, 0, len(byAsset))
	for _, set := range byAsset {
		sets = append(sets, set)
	}
	return sets
}
