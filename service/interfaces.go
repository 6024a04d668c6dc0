package service

import (
	"context"
	"time"

	"ewager/events"
	"ewager/models"
)

// TournamentStore persists tournament records
type TournamentStore interface {
	// LoadTournaments returns every stored tournament
	LoadTournaments(ctx context.Context) ([]*models.Tournament, error)

	// SaveTournament inserts or replaces a tournament, including its participant list
	SaveTournament(ctx context.Context, tournament *models.Tournament) error
}

// LedgerStore persists the manual result ledger and the trade message stream
type LedgerStore interface {
	// LoadWagerLogs returns every ledger entry in chronological order
	LoadWagerLogs(ctx context.Context) ([]*models.WagerLogEntry, error)

	// AppendWagerLog stores a new ledger entry
	AppendWagerLog(ctx context.Context, entry *models.WagerLogEntry) error

	// LoadTradeMessages returns every captured trade message in chronological order
	LoadTradeMessages(ctx context.Context) ([]*models.TradeMessage, error)

	// AppendTradeMessage stores a captured trade message
	AppendTradeMessage(ctx context.Context, message *models.TradeMessage) error
}

// RollStore persists catalog roll history
type RollStore interface {
	// LoadRolls returns every roll record in chronological order
	LoadRolls(ctx context.Context) ([]*models.RollRecord, error)

	// AppendRoll stores a roll record
	AppendRoll(ctx context.Context, record *models.RollRecord) error
}

// StateStore is the full persistence surface the bot needs
type StateStore interface {
	TournamentStore
	LedgerStore
	RollStore
	Close() error
}

// CatalogClient fetches entity data from the external creature catalog
type CatalogClient interface {
	FetchEntity(ctx context.Context, id int) (*models.CatalogEntity, error)
}

// Authorizer answers capability queries against the chat session
type Authorizer interface {
	// IsModerator reports whether the user may moderate in the given channel
	IsModerator(ctx context.Context, guildID, channelID, userID int64) bool
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event)
}

// Randomizer draws uniform integers in [0, n)
type Randomizer interface {
	IntN(n int) int
}

// TournamentService owns tournament records and their lifecycle
type TournamentService interface {
	// Create opens registration for a new tournament
	Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error)

	// BindStatusMessage records the message whose reactions drive the tournament
	BindStatusMessage(ctx context.Context, tournamentID, messageID int64) error

	// Join adds a participant while registration is open
	Join(ctx context.Context, tournamentID, userID int64) (*models.Tournament, error)

	// Leave removes a participant while registration is open
	Leave(ctx context.Context, tournamentID, userID int64) (*models.Tournament, error)

	// Start moves a tournament from registration to active
	Start(ctx context.Context, tournamentID, requesterID int64, isAuthorized bool) (*models.Tournament, error)

	// Complete draws a winner and closes the tournament
	Complete(ctx context.Context, tournamentID, requesterID int64) (*models.Tournament, error)

	// Describe returns a snapshot of a tournament
	Describe(ctx context.Context, tournamentID int64) (*models.Tournament, error)

	// List returns snapshots matching the filter ordered by id
	List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error)

	// ResolveByStatusMessage maps a status message back to its tournament
	ResolveByStatusMessage(messageID int64) (int64, bool)

	// Restore rehydrates the registry from the store
	Restore(ctx context.Context) error
}

// ReactionRouter turns reactions on status messages into registry calls
type ReactionRouter interface {
	Route(ctx context.Context, reaction ReactionEvent) ReactionOutcome
}

// LedgerService owns the manual result ledger and trade message stream
type LedgerService interface {
	// LogManualResult appends a self-reported result and returns the stored entry
	LogManualResult(ctx context.Context, winnerID, loserID, loggerID, guildID, channelID int64) (*models.WagerLogEntry, error)

	// RecentResults returns up to limit entries, most recent first
	RecentResults(ctx context.Context, limit int) ([]*models.WagerLogEntry, error)

	// ResultsSince returns entries created at or after since, oldest first
	ResultsSince(ctx context.Context, since time.Time) ([]*models.WagerLogEntry, error)

	// StatsFor counts wins and losses for a user over the full ledger
	StatsFor(ctx context.Context, userID int64) (*models.LedgerStats, error)

	// Leaderboard ranks users by wins, then by fewest losses
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// LogTradeMessage appends a message to the trade audit trail
	LogTradeMessage(ctx context.Context, userID, channelID int64, content string) error

	// RecentTradeMessages returns up to limit messages from a channel, most recent first
	RecentTradeMessages(ctx context.Context, channelID int64, limit int) ([]*models.TradeMessage, error)

	// Restore rehydrates the ledger from the store
	Restore(ctx context.Context) error
}

// RollService owns random rolls and catalog roll history
type RollService interface {
	// RollNumeric returns a uniform integer in [1, 100]
	RollNumeric(ctx context.Context, userID int64) int

	// RollCatalog draws a catalog entity and records it in the user's history
	RollCatalog(ctx context.Context, userID int64) (*models.RollRecord, error)

	// History returns up to limit rolls for a user, most recent first
	History(ctx context.Context, userID int64, limit int) ([]*models.RollRecord, error)

	// RollCount returns how many catalog rolls a user has made
	RollCount(ctx context.Context, userID int64) int

	// Restore rehydrates roll history from the store
	Restore(ctx context.Context) error
}
