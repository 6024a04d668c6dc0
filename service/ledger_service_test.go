package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ewager/events"
	"ewager/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_LogManualResult(t *testing.T) {
	ctx := context.Background()
	publisher := &recordingPublisher{}
	svc := NewLedgerService(nil, publisher)

	first, err := svc.LogManualResult(ctx, 1, 2, 3, 42, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, "ML-1", first.DisplayID())
	assert.Equal(t, int64(3), first.LoggedBy)
	assert.Equal(t, int64(42), first.GuildID)
	assert.Equal(t, int64(500), first.ChannelID)

	second, err := svc.LogManualResult(ctx, 4, 5, 3, 42, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Sequence)

	recent, err := svc.RecentResults(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(2), recent[0].Sequence)
	assert.Equal(t, int64(4), recent[0].WinnerID)

	assert.Len(t, publisher.ofType(events.EventTypeWagerResultLogged), 2)
}

func TestLedgerService_SelfPairingIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil)

	for _, id := range []int64{0, 1, 12345} {
		_, err := svc.LogManualResult(ctx, id, id, 9, 42, 500)
		assert.ErrorIs(t, err, ErrInvalidParties)
		assert.Equal(t, KindValidation, KindOf(err))
	}

	recent, err := svc.RecentResults(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestLedgerService_RecentResultsOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil)

	for i := int64(1); i <= 5; i++ {
		_, err := svc.LogManualResult(ctx, i, i+100, 0, 0, 0)
		require.NoError(t, err)
	}

	recent, err := svc.RecentResults(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []int64{5, 4, 3}, []int64{recent[0].Sequence, recent[1].Sequence, recent[2].Sequence})

	all, err := svc.RecentResults(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = svc.RecentResults(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestLedgerService_StatsFor(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil)

	_, _ = svc.LogManualResult(ctx, 1, 2, 3, 0, 0)
	_, _ = svc.LogManualResult(ctx, 1, 3, 3, 0, 0)
	_, _ = svc.LogManualResult(ctx, 2, 1, 3, 0, 0)

	stats, err := svc.StatsFor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)

	stats, _ = svc.StatsFor(ctx, 2)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)

	// Logging a result does not count for the logger
	stats, _ = svc.StatsFor(ctx, 3)
	assert.Equal(t, 0, stats.Wins)
	assert.Equal(t, 1, stats.Losses)

	stats, _ = svc.StatsFor(ctx, 42)
	assert.Equal(t, &models.LedgerStats{UserID: 42}, stats)
}

func TestLedgerService_Leaderboard(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil)

	_, _ = svc.LogManualResult(ctx, 1, 2, 0, 0, 0)
	_, _ = svc.LogManualResult(ctx, 1, 3, 0, 0, 0)
	_, _ = svc.LogManualResult(ctx, 3, 2, 0, 0, 0)
	_, _ = svc.LogManualResult(ctx, 4, 5, 0, 0, 0)

	board, err := svc.Leaderboard(ctx, 3)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, &models.LeaderboardEntry{UserID: 1, Wins: 2}, board[0])
	// 4 and 3 both have one win; 4 has fewer losses
	assert.Equal(t, int64(4), board[1].UserID)
	assert.Equal(t, int64(3), board[2].UserID)
}

func TestLedgerService_ResultsSince(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil).(*ledgerService)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time { return clock }

	for i := 0; i < 4; i++ {
		_, err := svc.LogManualResult(ctx, 1, 2, 0, 0, 0)
		require.NoError(t, err)
		clock = clock.Add(10 * time.Hour)
	}

	got, err := svc.ResultsSince(ctx, base.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].Sequence)
	assert.Equal(t, int64(4), got[1].Sequence)
}

func TestLedgerService_TradeMessages(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil)

	require.NoError(t, svc.LogTradeMessage(ctx, 1, 100, "lf shiny"))
	require.NoError(t, svc.LogTradeMessage(ctx, 2, 200, "other channel"))
	require.NoError(t, svc.LogTradeMessage(ctx, 3, 100, ""))

	msgs, err := svc.RecentTradeMessages(ctx, 100, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(3), msgs[0].UserID)
	assert.Equal(t, "lf shiny", msgs[1].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	msgs, err = svc.RecentTradeMessages(ctx, 100, 1)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}

func TestLedgerService_PersistsAppends(t *testing.T) {
	ctx := context.Background()
	store := new(MockLedgerStore)
	store.On("AppendWagerLog", ctx, mock.MatchedBy(func(e *models.WagerLogEntry) bool {
		return e.Sequence == 1 && e.WinnerID == 1 && e.LoserID == 2
	})).Return(nil)
	store.On("AppendTradeMessage", ctx, mock.MatchedBy(func(m *models.TradeMessage) bool {
		return m.ChannelID == 100 && m.Content == "wts"
	})).Return(nil)

	svc := NewLedgerService(store, nil)
	_, err := svc.LogManualResult(ctx, 1, 2, 3, 0, 0)
	require.NoError(t, err)
	require.NoError(t, svc.LogTradeMessage(ctx, 5, 100, "wts"))

	// Rejected results never reach the store
	_, err = svc.LogManualResult(ctx, 1, 1, 3, 0, 0)
	require.Error(t, err)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "AppendWagerLog", 1)
}

func TestLedgerService_PersistenceFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := new(MockLedgerStore)
	store.On("AppendWagerLog", ctx, mock.Anything).Return(errors.New("timeout"))
	publisher := &recordingPublisher{}

	svc := NewLedgerService(store, publisher)
	entry, err := svc.LogManualResult(ctx, 1, 2, 3, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.Sequence)

	recent, _ := svc.RecentResults(ctx, 5)
	assert.Len(t, recent, 1)
	assert.Len(t, publisher.ofType(events.EventTypePersistenceFailed), 1)
}

func TestLedgerService_Restore(t *testing.T) {
	ctx := context.Background()
	store := new(MockLedgerStore)
	store.On("LoadWagerLogs", ctx).Return([]*models.WagerLogEntry{
		{Sequence: 2, WinnerID: 3, LoserID: 4},
		{Sequence: 1, WinnerID: 1, LoserID: 2},
	}, nil)
	store.On("LoadTradeMessages", ctx).Return([]*models.TradeMessage{
		{UserID: 1, ChannelID: 100, Content: "old"},
	}, nil)
	store.On("AppendWagerLog", ctx, mock.Anything).Return(nil)

	svc := NewLedgerService(store, nil)
	require.NoError(t, svc.Restore(ctx))

	recent, err := svc.RecentResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(2), recent[0].Sequence)

	entry, err := svc.LogManualResult(ctx, 5, 6, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Sequence)

	msgs, _ := svc.RecentTradeMessages(ctx, 100, 5)
	assert.Len(t, msgs, 1)
}

func TestLedgerService_ConcurrentLogsGetUniqueSequences(t *testing.T) {
	ctx := context.Background()
	svc := NewLedgerService(nil, nil)

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			_, err := svc.LogManualResult(ctx, n, n+1000, 0, 0, 0)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.RecentResults(ctx, 100)
	require.NoError(t, err)
	require.Len(t, all, 50)

	seen := make(map[int64]bool)
	for _, e := range all {
		seen[e.Sequence] = true
	}
	assert.Len(t, seen, 50)
}
