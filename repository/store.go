package repository

import (
	"ewager/database"
)

// Store bundles the Postgres repositories into a single state store
type Store struct {
	*TournamentRepository
	*LedgerRepository
	*RollRepository

	db *database.DB
}

// NewStore creates a Postgres-backed state store
func NewStore(db *database.DB) *Store {
	return &Store{
		TournamentRepository: NewTournamentRepository(db),
		LedgerRepository:     NewLedgerRepository(db),
		RollRepository:       NewRollRepository(db),
		db:                   db,
	}
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
