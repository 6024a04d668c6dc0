package models

import "time"

// BaseStats holds the six base stats of a catalog entity
type BaseStats struct {
	HP             int `db:"hp" json:"hp"`
	Attack         int `db:"attack" json:"attack"`
	Defense        int `db:"defense" json:"defense"`
	SpecialAttack  int `db:"sp_attack" json:"sp_attack"`
	SpecialDefense int `db:"sp_defense" json:"sp_defense"`
	Speed          int `db:"speed" json:"speed"`
}

// Total returns the sum of all base stats
func (s BaseStats) Total() int {
	return s.HP + s.Attack + s.Defense + s.SpecialAttack + s.SpecialDefense + s.Speed
}

// CatalogEntity is the subset of catalog data a roll needs
type CatalogEntity struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Types     []string  `json:"types"`
	Stats     BaseStats `json:"stats"`
	Height    int       `json:"height"` // decimetres
	Weight    int       `json:"weight"` // hectograms
	SpriteURL string    `json:"sprite_url"`
}

// RollRecord is one successful catalog roll
type RollRecord struct {
	UserID    int64     `db:"discord_id" json:"user_id"`
	CatalogID int       `db:"catalog_id" json:"catalog_id"`
	Name      string    `db:"name" json:"name"`
	Types     []string  `db:"types" json:"types"`
	Stats     BaseStats `json:"stats"`
	StatTotal int       `db:"stat_total" json:"stat_total"`
	Level     int       `db:"level" json:"level"`
	Height    int       `db:"height" json:"height"`
	Weight    int       `db:"weight" json:"weight"`
	SpriteURL string    `db:"sprite_url" json:"sprite_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HeightMeters converts the catalog height to metres
func (r *RollRecord) HeightMeters() float64 {
	return float64(r.Height) / 10
}

// WeightKilograms converts the catalog weight to kilograms
func (r *RollRecord) WeightKilograms() float64 {
	return float64(r.Weight) / 10
}
