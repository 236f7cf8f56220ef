package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/provenance-engine/internal/domain"
	"github.com/feral-file/provenance-engine/internal/fetcher"
	"github.com/feral-file/provenance-engine/internal/logger"
	"github.com/feral-file/provenance-engine/internal/mocks"
	"github.com/feral-file/provenance-engine/internal/service"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
)

// testServiceMocks contains all the mocks needed for testing the provenance service
type testServiceMocks struct {
	ctrl    *gomock.Controller
	fetcher *mocks.MockFetcher
	clock   *mocks.MockClock
	service service.Service
}

// setupTest creates all the mocks and the provenance service for testing
func setupTest(t *testing.T) *testServiceMocks {
	ctrl := gomock.NewController(t)

	mockFetcher := mocks.NewMockFetcher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)
	mockClock.EXPECT().Now().Return(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).AnyTimes()

	svc := service.New(service.Config{
		HistoryTTL:           5 * time.Minute,
		ActivityTTL:          time.Minute,
		DefaultActivityLimit: 10,
	}, mockFetcher, mockClock)

	return &testServiceMocks{
		ctrl:    ctrl,
		fetcher: mockFetcher,
		clock:   mockClock,
		service: svc,
	}
}

func mintEvent(assetID uint64, to string, block uint64) domain.Event {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Event{
		ID:          domain.NewEventID("0xmint", uint(block)),
		AssetID:     assetID,
		Kind:        domain.KindMinted,
		From:        domain.ZeroAddress,
		To:          to,
		Timestamp:   base.Add(time.Duration(block) * 12 * time.Second),
		BlockNumber: block,
	}
}

func transferEvent(assetID uint64, from, to string, block uint64) domain.Event {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Event{
		ID:          domain.NewEventID("0xtransfer", uint(block)),
		AssetID:     assetID,
		Kind:        domain.KindTransferred,
		From:        from,
		To:          to,
		Timestamp:   base.Add(time.Duration(block) * 12 * time.Second),
		BlockNumber: block,
	}
}

func TestGetHistory_FetchesAndAssembles(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, filter fetcher.Filter) (*fetcher.Result, error) {
			require.NotNil(t, filter.AssetID)
			assert.Equal(t, uint64(7), *filter.AssetID)
			return &fetcher.Result{Events: []domain.Event{
				mintEvent(7, addrA, 100),
				transferEvent(7, addrA, addrB, 150),
			}}, nil
		})

	h, err := tm.service.GetHistory(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, addrA, h.Minter)
	assert.Equal(t, addrB, h.CurrentOwner)
	assert.Equal(t, 1, h.TransferCount)
}

func TestGetHistory_SecondReadServedFromCache(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{
		Events: []domain.Event{mintEvent(7, addrA, 100)},
	}, nil).Times(1)

	h1, err1 := tm.service.GetHistory(ctx, 7)
	h2, err2 := tm.service.GetHistory(ctx, 7)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, h1, h2)
}

func TestGetHistory_InvalidateForcesRecompute(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	first := &fetcher.Result{Events: []domain.Event{mintEvent(7, addrA, 100)}}
	second := &fetcher.Result{Events: []domain.Event{
		mintEvent(7, addrA, 100),
		transferEvent(7, addrA, addrB, 150),
	}}
	gomock.InOrder(
		tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(first, nil),
		tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(second, nil),
	)

	h1, err := tm.service.GetHistory(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, addrA, h1.CurrentOwner)

	tm.service.Invalidate(7)

	h2, err := tm.service.GetHistory(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, addrB, h2.CurrentOwner)
}

func TestGetHistory_RebuildFromSameSourceIsIdentical(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	events := []domain.Event{
		mintEvent(7, addrA, 100),
		transferEvent(7, addrA, addrB, 150),
	}
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).
		Return(&fetcher.Result{Events: events}, nil).Times(2)

	h1, err := tm.service.GetHistory(ctx, 7)
	require.NoError(t, err)

	tm.service.Invalidate(7)

	h2, err := tm.service.GetHistory(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestGetHistory_NoEventsIsNotFound(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{}, nil)

	h, err := tm.service.GetHistory(ctx, 7)

	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetHistory_AllEventsDroppedIsSourceUnavailable(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{Dropped: 3}, nil)

	h, err := tm.service.GetHistory(ctx, 7)

	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestGetHistory_FetchErrorNotCached(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	gomock.InOrder(
		tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).
			Return(nil, domain.ErrSourceUnavailable),
		tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).
			Return(&fetcher.Result{Events: []domain.Event{mintEvent(7, addrA, 100)}}, nil),
	)

	_, err := tm.service.GetHistory(ctx, 7)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	h, err := tm.service.GetHistory(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, addrA, h.CurrentOwner)
}

func TestGetHistory_DuplicateMintSurfaces(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{
		Events: []domain.Event{
			mintEvent(7, addrA, 100),
			mintEvent(7, addrB, 120),
		},
	}, nil)

	h, err := tm.service.GetHistory(ctx, 7)

	assert.Nil(t, h)
	var dupErr *domain.DuplicateMintError
	assert.ErrorAs(t, err, &dupErr)
}

func TestGetRecentActivity_SharedWindowFetch(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, filter fetcher.Filter) (*fetcher.Result, error) {
			assert.Nil(t, filter.AssetID)
			return &fetcher.Result{Events: []domain.Event{
				mintEvent(1, addrA, 100),
				transferEvent(2, addrA, addrB, 300),
				mintEvent(3, addrB, 200),
			}}, nil
		})

	feed, err := tm.service.GetRecentActivity(ctx, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, feed.Limit)
	require.Len(t, feed.Events, 2)
	assert.Equal(t, uint64(300), feed.Events[0].BlockNumber)
	assert.Equal(t, uint64(200), feed.Events[1].BlockNumber)
}

func TestGetRecentActivity_DefaultLimit(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{
		Events: []domain.Event{mintEvent(1, addrA, 100)},
	}, nil)

	feed, err := tm.service.GetRecentActivity(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, 10, feed.Limit)
}

func TestGetRecentActivity_DegradedFetchStillServes(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	// Dropped events degrade the feed but never fail it; a single bad asset
	// must not blank cross-asset activity
	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{
		Events:  []domain.Event{mintEvent(1, addrA, 100)},
		Dropped: 2,
	}, nil)

	feed, err := tm.service.GetRecentActivity(ctx, 5)

	require.NoError(t, err)
	assert.Len(t, feed.Events, 1)
}

func TestGetRecentActivity_CachedPerLimit(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().FetchEvents(ctx, gomock.Any()).Return(&fetcher.Result{
		Events: []domain.Event{mintEvent(1, addrA, 100)},
	}, nil).Times(1)

	feed1, err1 := tm.service.GetRecentActivity(ctx, 5)
	feed2, err2 := tm.service.GetRecentActivity(ctx, 5)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, feed1, feed2)
}

func TestGetCurrentOwner(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().OwnerOf(ctx, uint64(7)).Return(addrB, nil)

	owner, err := tm.service.GetCurrentOwner(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, addrB, owner)
}

func TestGetCurrentOwner_SourceFailureWrapped(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	tm.fetcher.EXPECT().OwnerOf(ctx, uint64(7)).Return("", errors.New("execution reverted"))

	owner, err := tm.service.GetCurrentOwner(ctx, 7)

	assert.Empty(t, owner)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
