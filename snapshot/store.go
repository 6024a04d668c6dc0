package snapshot

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"ewager/models"

	log "github.com/sirupsen/logrus"
)

const documentVersion = 1

// DefaultTradeMessageLimit bounds the trade trail kept in the document
const DefaultTradeMessageLimit = 1000

// document is the serialized form of all bot state
type document struct {
	Version       int                     `json:"version"`
	SavedAt       time.Time               `json:"saved_at"`
	Tournaments   []*models.Tournament    `json:"tournaments"`
	WagerLogs     []*models.WagerLogEntry `json:"wager_logs"`
	TradeMessages []*models.TradeMessage  `json:"trade_messages"`
	Rolls         []*models.RollRecord    `json:"rolls"`
}

// Store keeps the whole bot state in one JSON document and rewrites it on every change.
// It suits small single-guild deployments where a database is overkill.
type Store struct {
	blob       Blob
	tradeLimit int

	mu     sync.Mutex
	loaded bool
	doc    document
}

// Option configures a Store
type Option func(*Store)

// WithTradeMessageLimit keeps only the newest n trade messages. n <= 0 disables the cap.
func WithTradeMessageLimit(n int) Option {
	return func(s *Store) {
		s.tradeLimit = n
	}
}

// NewStore creates a snapshot store on top of blob
func NewStore(blob Blob, opts ...Option) *Store {
	s := &Store{blob: blob, tradeLimit: DefaultTradeMessageLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureLoaded reads the document once. Caller holds mu.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, err := s.blob.Read(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Info("No snapshot found, starting with empty state")
		s.doc = document{Version: documentVersion}
	case err != nil:
		return err
	default:
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to decode snapshot: %w", err)
		}
		if doc.Version > documentVersion {
			return fmt.Errorf("snapshot version %d is newer than supported version %d", doc.Version, documentVersion)
		}
		s.doc = doc
	}

	s.loaded = true
	return nil
}

// flush writes the document. Caller holds mu.
func (s *Store) flush(ctx context.Context) error {
	s.doc.Version = documentVersion
	s.doc.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.blob.Write(ctx, data)
}

// LoadTournaments returns every stored tournament
func (s *Store) LoadTournaments(ctx context.Context) ([]*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]*models.Tournament, 0, len(s.doc.Tournaments))
	for _, t := range s.doc.Tournaments {
		out = append(out, t.Clone())
	}
	return out, nil
}

// SaveTournament inserts or replaces a tournament by id
func (s *Store) SaveTournament(ctx context.Context, t *models.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	saved := t.Clone()
	idx := slices.IndexFunc(s.doc.Tournaments, func(existing *models.Tournament) bool {
		return existing.ID == t.ID
	})
	if idx >= 0 {
		s.doc.Tournaments[idx] = saved
	} else {
		s.doc.Tournaments = append(s.doc.Tournaments, saved)
		slices.SortFunc(s.doc.Tournaments, func(a, b *models.Tournament) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}
	return s.flush(ctx)
}

// LoadWagerLogs returns every ledger entry
func (s *Store) LoadWagerLogs(ctx context.Context) ([]*models.WagerLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]*models.WagerLogEntry, 0, len(s.doc.WagerLogs))
	for _, e := range s.doc.WagerLogs {
		copied := *e
		out = append(out, &copied)
	}
	return out, nil
}

// AppendWagerLog stores a ledger entry, rejecting duplicate sequences
func (s *Store) AppendWagerLog(ctx context.Context, entry *models.WagerLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	if slices.ContainsFunc(s.doc.WagerLogs, func(e *models.WagerLogEntry) bool {
		return e.Sequence == entry.Sequence
	}) {
		return fmt.Errorf("wager log %d already exists", entry.Sequence)
	}

	copied := *entry
	s.doc.WagerLogs = append(s.doc.WagerLogs, &copied)
	return s.flush(ctx)
}

// LoadTradeMessages returns the trade audit trail
func (s *Store) LoadTradeMessages(ctx context.Context) ([]*models.TradeMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]*models.TradeMessage, 0, len(s.doc.TradeMessages))
	for _, m := range s.doc.TradeMessages {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

// AppendTradeMessage stores a captured trade message
func (s *Store) AppendTradeMessage(ctx context.Context, message *models.TradeMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	copied := *message
	s.doc.TradeMessages = append(s.doc.TradeMessages, &copied)
	if s.tradeLimit > 0 && len(s.doc.TradeMessages) > s.tradeLimit {
		dropped := len(s.doc.TradeMessages) - s.tradeLimit
		s.doc.TradeMessages = slices.Delete(s.doc.TradeMessages, 0, dropped)
	}
	return s.flush(ctx)
}

// LoadRolls returns every roll record
func (s *Store) LoadRolls(ctx context.Context) ([]*models.RollRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]*models.RollRecord, 0, len(s.doc.Rolls))
	for _, r := range s.doc.Rolls {
		copied := *r
		copied.Types = slices.Clone(r.Types)
		out = append(out, &copied)
	}
	return out, nil
}

// AppendRoll stores a roll record
func (s *Store) AppendRoll(ctx context.Context, record *models.RollRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	copied := *record
	copied.Types = slices.Clone(record.Types)
	s.doc.Rolls = append(s.doc.Rolls, &copied)
	return s.flush(ctx)
}

// Close flushes nothing; every mutation is written through
func (s *Store) Close() error {
	return nil
}
