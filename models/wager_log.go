package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WagerLogEntry is a self-reported win/loss outcome
type WagerLogEntry struct {
	Sequence  int64     `db:"sequence" json:"sequence"` // 1-based position in the ledger
	WinnerID  int64     `db:"winner_discord_id" json:"winner_id"`
	LoserID   int64     `db:"loser_discord_id" json:"loser_id"`
	LoggedBy  int64     `db:"logged_by" json:"logged_by"`
	GuildID   int64     `db:"guild_id" json:"guild_id"`
	ChannelID int64     `db:"channel_id" json:"channel_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DisplayID renders the entry reference shown to users
func (e *WagerLogEntry) DisplayID() string {
	return fmt.Sprintf("ML-%d", e.Sequence)
}

// TradeMessage is a message captured from a trade or gamble channel
type TradeMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    int64     `db:"discord_id" json:"user_id"`
	ChannelID int64     `db:"channel_id" json:"channel_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LedgerStats aggregates a user's ledger results and roll activity
type LedgerStats struct {
	UserID   int64       `json:"user_id"`
	Wins     int         `json:"wins"`
	Losses   int         `json:"losses"`
	Rolls    int         `json:"rolls"`
	LastRoll *RollRecord `json:"last_roll,omitempty"`
}

// LeaderboardEntry is one row of the win/loss leaderboard
type LeaderboardEntry struct {
	UserID int64 `json:"user_id"`
	Wins   int   `json:"wins"`
	Losses int   `json:"losses"`
}
