package repository

import (
	"context"
	"fmt"

	"ewager/database"
	"ewager/models"
)

// LedgerRepository persists manual results and the trade audit trail.
// Both tables are append-only.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// LoadWagerLogs returns every logged result in sequence order
func (r *LedgerRepository) LoadWagerLogs(ctx context.Context) ([]*models.WagerLogEntry, error) {
	query := `
		SELECT sequence, winner_discord_id, loser_discord_id, logged_by, guild_id, channel_id, created_at
		FROM wager_logs
		ORDER BY sequence
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query wager logs: %w", err)
	}
	defer rows.Close()

	var entries []*models.WagerLogEntry
	for rows.Next() {
		var e models.WagerLogEntry
		if err := rows.Scan(
			&e.Sequence,
			&e.WinnerID,
			&e.LoserID,
			&e.LoggedBy,
			&e.GuildID,
			&e.ChannelID,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wager log: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wager logs: %w", err)
	}
	return entries, nil
}

// AppendWagerLog stores a new result
func (r *LedgerRepository) AppendWagerLog(ctx context.Context, e *models.WagerLogEntry) error {
	query := `
		INSERT INTO wager_logs (sequence, winner_discord_id, loser_discord_id, logged_by, guild_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.q.Exec(ctx, query,
		e.Sequence,
		e.WinnerID,
		e.LoserID,
		e.LoggedBy,
		e.GuildID,
		e.ChannelID,
		e.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert wager log %d: %w", e.Sequence, err)
	}
	return nil
}

// LoadTradeMessages returns the trade audit trail oldest first
func (r *LedgerRepository) LoadTradeMessages(ctx context.Context) ([]*models.TradeMessage, error) {
	query := `
		SELECT id, discord_id, channel_id, content, created_at
		FROM trade_messages
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.TradeMessage
	for rows.Next() {
		var m models.TradeMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.ChannelID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade messages: %w", err)
	}
	return messages, nil
}

// AppendTradeMessage stores a captured trade channel message
func (r *LedgerRepository) AppendTradeMessage(ctx context.Context, m *models.TradeMessage) error {
	query := `
		INSERT INTO trade_messages (id, discord_id, channel_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.ChannelID, m.Content, m.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert trade message: %w", err)
	}
	return nil
}
