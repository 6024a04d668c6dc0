package repository

import (
	"context"
	"fmt"

	"ewager/database"
	"ewager/models"
)

// RollRepository persists catalog roll history
type RollRepository struct {
	q queryable
}

// NewRollRepository creates a new roll repository
func NewRollRepository(db *database.DB) *RollRepository {
	return &RollRepository{q: db.Pool}
}

// LoadRolls returns every stored roll in insertion order
func (r *RollRepository) LoadRolls(ctx context.Context) ([]*models.RollRecord, error) {
	query := `
		SELECT discord_id, catalog_id, name, types,
		       hp, attack, defense, sp_attack, sp_defense, speed,
		       stat_total, level, height, weight, sprite_url, created_at
		FROM roll_records
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rolls: %w", err)
	}
	defer rows.Close()

	var rolls []*models.RollRecord
	for rows.Next() {
		var rec models.RollRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.CatalogID,
			&rec.Name,
			&rec.Types,
			&rec.Stats.HP,
			&rec.Stats.Attack,
			&rec.Stats.Defense,
			&rec.Stats.SpecialAttack,
			&rec.Stats.SpecialDefense,
			&rec.Stats.Speed,
			&rec.StatTotal,
			&rec.Level,
			&rec.Height,
			&rec.Weight,
			&rec.SpriteURL,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan roll: %w", err)
		}
		rolls = append(rolls, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rolls: %w", err)
	}
	return rolls, nil
}

// AppendRoll stores a successful catalog roll
func (r *RollRepository) AppendRoll(ctx context.Context, rec *models.RollRecord) error {
	types := rec.Types
	if types == nil {
		types = []string{}
	}

	query := `
		INSERT INTO roll_records (
			discord_id, catalog_id, name, types,
			hp, attack, defense, sp_attack, sp_defense, speed,
			stat_total, level, height, weight, sprite_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	if _, err := r.q.Exec(ctx, query,
		rec.UserID,
		rec.CatalogID,
		rec.Name,
		types,
		rec.Stats.HP,
		rec.Stats.Attack,
		rec.Stats.Defense,
		rec.Stats.SpecialAttack,
		rec.Stats.SpecialDefense,
		rec.Stats.Speed,
		rec.StatTotal,
		rec.Level,
		rec.Height,
		rec.Weight,
		rec.SpriteURL,
		rec.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert roll for user %d: %w", rec.UserID, err)
	}
	return nil
}
