package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"ewager/events"
	"ewager/models"

	log "github.com/sirupsen/logrus"
)

const (
	numericRollMax = 100
	maxLevel       = 100
)

// RollConfig holds the roll engine settings
type RollConfig struct {
	CatalogSize  int           // catalog ids are drawn from [1, CatalogSize]
	FetchTimeout time.Duration // upper bound on one catalog lookup
}

type rollService struct {
	catalog   CatalogClient
	store     RollStore
	publisher EventPublisher
	rng       Randomizer
	config    RollConfig
	now       func() time.Time

	mu      sync.RWMutex
	history map[int64][]*models.RollRecord // per user, chronological
}

// NewRollService creates a new roll engine
func NewRollService(catalog CatalogClient, store RollStore, publisher EventPublisher, rng Randomizer, config RollConfig) RollService {
	if rng == nil {
		rng = NewRandomizer()
	}
	return &rollService{
		catalog:   catalog,
		store:     store,
		publisher: publisher,
		rng:       rng,
		config:    config,
		now:       time.Now,
		history:   make(map[int64][]*models.RollRecord),
	}
}

// RollNumeric returns a uniform integer in [1, 100]. Nothing is stored.
func (s *rollService) RollNumeric(ctx context.Context, userID int64) int {
	value := s.rng.IntN(numericRollMax) + 1
	if s.publisher != nil {
		s.publisher.Emit(ctx, events.NumericRolledEvent{UserID: userID, Value: value})
	}
	return value
}

// RollCatalog draws a catalog id, looks it up and records the result.
// Any lookup failure is reported as ErrCatalogUnavailable and leaves history untouched.
func (s *rollService) RollCatalog(ctx context.Context, userID int64) (*models.RollRecord, error) {
	catalogID := s.rng.IntN(s.config.CatalogSize) + 1

	// No lock is held across the network call
	fetchCtx := ctx
	if s.config.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.config.FetchTimeout)
		defer cancel()
	}

	entity, err := s.catalog.FetchEntity(fetchCtx, catalogID)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id":    userID,
			"catalog_id": catalogID,
			"error":      err,
		}).Warn("Catalog lookup failed")
		return nil, fmt.Errorf("%w: entity %d: %v", ErrCatalogUnavailable, catalogID, err)
	}

	record := &models.RollRecord{
		UserID:    userID,
		CatalogID: catalogID,
		Name:      entity.Name,
		Types:     slices.Clone(entity.Types),
		Stats:     entity.Stats,
		StatTotal: entity.Stats.Total(),
		Level:     s.rng.IntN(maxLevel) + 1,
		Height:    entity.Height,
		Weight:    entity.Weight,
		SpriteURL: entity.SpriteURL,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.history[userID] = append(s.history[userID], record)
	if s.store != nil {
		if err := s.store.AppendRoll(ctx, record); err != nil {
			reportPersistenceFailure(ctx, s.publisher, "rolls", "append_roll", err)
		}
	}
	s.mu.Unlock()

	if s.publisher != nil {
		s.publisher.Emit(ctx, events.CatalogRolledEvent{
			UserID:    userID,
			CatalogID: catalogID,
			Name:      record.Name,
			Level:     record.Level,
			StatTotal: record.StatTotal,
		})
	}

	return cloneRoll(record), nil
}

// History returns up to limit rolls for a user, most recent first
func (s *rollService) History(ctx context.Context, userID int64, limit int) ([]*models.RollRecord, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rolls := s.history[userID]
	n := clampLimit(limit, len(rolls))
	result := make([]*models.RollRecord, 0, n)
	for i := len(rolls) - 1; i >= len(rolls)-n; i-- {
		result = append(result, cloneRoll(rolls[i]))
	}
	return result, nil
}

// RollCount returns how many catalog rolls a user has made
func (s *rollService) RollCount(ctx context.Context, userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history[userID])
}

// Restore rehydrates roll history from the store
func (s *rollService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	rolls, err := s.store.LoadRolls(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rolls: %w", err)
	}

	history := make(map[int64][]*models.RollRecord)
	for _, r := range rolls {
		history[r.UserID] = append(history[r.UserID], r)
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"rolls": len(rolls),
		"users": len(history),
	}).Info("Restored roll history")
	return nil
}

func cloneRoll(r *models.RollRecord) *models.RollRecord {
	c := *r
	c.Types = slices.Clone(r.Types)
	return &c
}
