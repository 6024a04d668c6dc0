package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"ewager/events"
	"ewager/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	store     LedgerStore
	publisher EventPublisher
	now       func() time.Time

	mu     sync.RWMutex
	logs   []*models.WagerLogEntry // chronological
	trades []*models.TradeMessage  // chronological
}

// NewLedgerService creates a new manual result ledger
func NewLedgerService(store LedgerStore, publisher EventPublisher) LedgerService {
	return &ledgerService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// LogManualResult appends a self-reported result. Any user may log any pair.
func (s *ledgerService) LogManualResult(ctx context.Context, winnerID, loserID, loggerID, guildID, channelID int64) (*models.WagerLogEntry, error) {
	if winnerID == loserID {
		return nil, ErrInvalidParties
	}

	s.mu.Lock()
	entry := &models.WagerLogEntry{
		Sequence:  s.lastSequence() + 1,
		WinnerID:  winnerID,
		LoserID:   loserID,
		LoggedBy:  loggerID,
		GuildID:   guildID,
		ChannelID: channelID,
		CreatedAt: s.now(),
	}
	s.logs = append(s.logs, entry)

	// Appends are persisted under the lock so the store sees sequences in order
	if s.store != nil {
		if err := s.store.AppendWagerLog(ctx, entry); err != nil {
			reportPersistenceFailure(ctx, s.publisher, "ledger", "append_wager_log", fmt.Errorf("entry %s: %w", entry.DisplayID(), err))
		}
	}
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"sequence":  entry.Sequence,
		"winner_id": winnerID,
		"loser_id":  loserID,
		"logged_by": loggerID,
	}).Info("Manual result logged")

	if s.publisher != nil {
		s.publisher.Emit(ctx, events.WagerResultLoggedEvent{
			Sequence: entry.Sequence,
			WinnerID: winnerID,
			LoserID:  loserID,
			LoggedBy: loggerID,
		})
	}

	copied := *entry
	return &copied, nil
}

// lastSequence returns the sequence of the newest entry. Caller holds mu.
func (s *ledgerService) lastSequence() int64 {
	if len(s.logs) == 0 {
		return 0
	}
	return s.logs[len(s.logs)-1].Sequence
}

// RecentResults returns up to limit entries, most recent first
func (s *ledgerService) RecentResults(ctx context.Context, limit int) ([]*models.WagerLogEntry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := clampLimit(limit, len(s.logs))
	result := make([]*models.WagerLogEntry, 0, n)
	for i := len(s.logs) - 1; i >= len(s.logs)-n; i-- {
		copied := *s.logs[i]
		result = append(result, &copied)
	}
	return result, nil
}

// ResultsSince returns entries created at or after since, oldest first
func (s *ledgerService) ResultsSince(ctx context.Context, since time.Time) ([]*models.WagerLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.WagerLogEntry
	for _, e := range s.logs {
		if !e.CreatedAt.Before(since) {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

// StatsFor counts wins and losses for a user over the full ledger
func (s *ledgerService) StatsFor(ctx context.Context, userID int64) (*models.LedgerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.LedgerStats{UserID: userID}
	for _, e := range s.logs {
		if e.WinnerID == userID {
			stats.Wins++
		}
		if e.LoserID == userID {
			stats.Losses++
		}
	}
	return stats, nil
}

// Leaderboard ranks users by wins, then by fewest losses, then by id
func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	byUser := make(map[int64]*models.LeaderboardEntry)
	get := func(id int64) *models.LeaderboardEntry {
		e, ok := byUser[id]
		if !ok {
			e = &models.LeaderboardEntry{UserID: id}
			byUser[id] = e
		}
		return e
	}
	for _, e := range s.logs {
		get(e.WinnerID).Wins++
		get(e.LoserID).Losses++
	}
	s.mu.RUnlock()

	board := make([]*models.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		board = append(board, e)
	}
	slices.SortFunc(board, func(a, b *models.LeaderboardEntry) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Losses, b.Losses); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	return board[:clampLimit(limit, len(board))], nil
}

// LogTradeMessage appends a message to the trade audit trail without validation
func (s *ledgerService) LogTradeMessage(ctx context.Context, userID, channelID int64, content string) error {
	msg := &models.TradeMessage{
		ID:        uuid.New(),
		UserID:    userID,
		ChannelID: channelID,
		Content:   content,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.trades = append(s.trades, msg)
	if s.store != nil {
		if err := s.store.AppendTradeMessage(ctx, msg); err != nil {
			reportPersistenceFailure(ctx, s.publisher, "ledger", "append_trade_message", err)
		}
	}
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.Emit(ctx, events.TradeMessageLoggedEvent{UserID: userID, ChannelID: channelID})
	}
	return nil
}

// RecentTradeMessages returns up to limit messages from a channel, most recent first
func (s *ledgerService) RecentTradeMessages(ctx context.Context, channelID int64, limit int) ([]*models.TradeMessage, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.TradeMessage
	for i := len(s.trades) - 1; i >= 0 && len(result) < limit; i-- {
		if s.trades[i].ChannelID == channelID {
			copied := *s.trades[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}

// Restore rehydrates the ledger from the store. New entries continue after the last stored sequence.
func (s *ledgerService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	logs, err := s.store.LoadWagerLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wager logs: %w", err)
	}
	trades, err := s.store.LoadTradeMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to load trade messages: %w", err)
	}

	slices.SortStableFunc(logs, func(a, b *models.WagerLogEntry) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	s.mu.Lock()
	s.logs = logs
	s.trades = trades
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"wager_logs":     len(logs),
		"trade_messages": len(trades),
	}).Info("Restored ledger")
	return nil
}
