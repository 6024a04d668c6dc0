package repository

import (
	"context"
	"fmt"

	"ewager/database"
	"ewager/models"

	"github.com/jackc/pgx/v5"
)

// TournamentRepository persists tournaments and their ordered participant lists
type TournamentRepository struct {
	db *database.DB
	q  queryable
}

// NewTournamentRepository creates a new tournament repository
func NewTournamentRepository(db *database.DB) *TournamentRepository {
	return &TournamentRepository{db: db, q: db.Pool}
}

// LoadTournaments returns every stored tournament with participants in join order
func (r *TournamentRepository) LoadTournaments(ctx context.Context) ([]*models.Tournament, error) {
	query := `
		SELECT id, host_discord_id, guild_id, channel_id, size, status,
		       winner_discord_id, started_by, status_message_id,
		       created_at, started_at, completed_at
		FROM tournaments
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []*models.Tournament
	byID := make(map[int64]*models.Tournament)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID,
			&t.HostID,
			&t.GuildID,
			&t.ChannelID,
			&t.Size,
			&t.Status,
			&t.WinnerID,
			&t.StartedBy,
			&t.StatusMessageID,
			&t.CreatedAt,
			&t.StartedAt,
			&t.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		t.Participants = []int64{}
		tournaments = append(tournaments, &t)
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournaments: %w", err)
	}

	participantQuery := `
		SELECT tournament_id, discord_id
		FROM tournament_participants
		ORDER BY tournament_id, position
	`
	prows, err := r.q.Query(ctx, participantQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournament participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var tournamentID, discordID int64
		if err := prows.Scan(&tournamentID, &discordID); err != nil {
			return nil, fmt.Errorf("failed to scan tournament participant: %w", err)
		}
		if t, ok := byID[tournamentID]; ok {
			t.Participants = append(t.Participants, discordID)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament participants: %w", err)
	}

	return tournaments, nil
}

// SaveTournament upserts the tournament row and replaces its participant list atomically
func (r *TournamentRepository) SaveTournament(ctx context.Context, t *models.Tournament) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		upsert := `
			INSERT INTO tournaments (
				id, host_discord_id, guild_id, channel_id, size, status,
				winner_discord_id, started_by, status_message_id,
				created_at, started_at, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				size = EXCLUDED.size,
				status = EXCLUDED.status,
				winner_discord_id = EXCLUDED.winner_discord_id,
				started_by = EXCLUDED.started_by,
				status_message_id = EXCLUDED.status_message_id,
				started_at = EXCLUDED.started_at,
				completed_at = EXCLUDED.completed_at
		`
		if _, err := tx.Exec(ctx, upsert,
			t.ID,
			t.HostID,
			t.GuildID,
			t.ChannelID,
			t.Size,
			t.Status,
			t.WinnerID,
			t.StartedBy,
			t.StatusMessageID,
			t.CreatedAt,
			t.StartedAt,
			t.CompletedAt,
		); err != nil {
			return fmt.Errorf("failed to upsert tournament %d: %w", t.ID, err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM tournament_participants WHERE tournament_id = $1`, t.ID); err != nil {
			return fmt.Errorf("failed to clear participants for tournament %d: %w", t.ID, err)
		}

		if len(t.Participants) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for i, userID := range t.Participants {
			batch.Queue(`
				INSERT INTO tournament_participants (tournament_id, discord_id, position)
				VALUES ($1, $2, $3)
			`, t.ID, userID, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert participants for tournament %d: %w", t.ID, err)
		}
		return nil
	})
}
