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

	log "github.com/sirupsen/logrus"
)

// TournamentConfig holds the registry's policy knobs
type TournamentConfig struct {
	MinSize         int
	MaxSize         int
	MinParticipants int // quorum required to leave registration
}

// CreateTournamentParams describes a new tournament
type CreateTournamentParams struct {
	HostID    int64
	Size      int
	GuildID   int64
	ChannelID int64
}

// tournamentEntry guards a single tournament; every mutation holds mu
type tournamentEntry struct {
	mu         sync.Mutex
	tournament *models.Tournament
}

type tournamentService struct {
	store     TournamentStore
	publisher EventPublisher
	rng       Randomizer
	config    TournamentConfig
	now       func() time.Time

	// mu guards the table itself, not the tournaments in it
	mu        sync.RWMutex
	entries   map[int64]*tournamentEntry
	byMessage map[int64]int64
	nextID    int64
}

// NewTournamentService creates a new tournament registry
func NewTournamentService(store TournamentStore, publisher EventPublisher, rng Randomizer, config TournamentConfig) TournamentService {
	if rng == nil {
		rng = NewRandomizer()
	}
	return &tournamentService{
		store:     store,
		publisher: publisher,
		rng:       rng,
		config:    config,
		now:       time.Now,
		entries:   make(map[int64]*tournamentEntry),
		byMessage: make(map[int64]int64),
		nextID:    1,
	}
}

// Create opens registration for a new tournament
func (s *tournamentService) Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error) {
	if params.Size < s.config.MinSize || params.Size > s.config.MaxSize {
		return nil, withDetail(ErrInvalidSize, "size must be between %d and %d, got %d", s.config.MinSize, s.config.MaxSize, params.Size)
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	entry := &tournamentEntry{
		tournament: &models.Tournament{
			ID:           id,
			HostID:       params.HostID,
			GuildID:      params.GuildID,
			ChannelID:    params.ChannelID,
			Size:         params.Size,
			Participants: []int64{},
			Status:       models.TournamentStatusRegistration,
			CreatedAt:    s.now(),
		},
	}
	// Lock the entry before publishing it so nobody can observe it unsaved
	entry.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()

	snapshot := s.persistLocked(ctx, entry, "create")
	entry.mu.Unlock()

	log.WithFields(log.Fields{
		"tournament_id": id,
		"host_id":       params.HostID,
		"size":          params.Size,
	}).Info("Tournament created")

	s.emit(ctx, events.TournamentCreatedEvent{
		TournamentID: id,
		HostID:       params.HostID,
		Size:         params.Size,
		ChannelID:    params.ChannelID,
	})
	return snapshot, nil
}

// BindStatusMessage records the message whose reactions drive the tournament
func (s *tournamentService) BindStatusMessage(ctx context.Context, tournamentID, messageID int64) error {
	entry, err := s.entry(tournamentID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	s.mu.Lock()
	if old := entry.tournament.StatusMessageID; old != nil {
		delete(s.byMessage, *old)
	}
	s.byMessage[messageID] = tournamentID
	s.mu.Unlock()

	entry.tournament.StatusMessageID = &messageID
	s.persistLocked(ctx, entry, "bind_status_message")
	return nil
}

// Join adds a participant while registration is open
func (s *tournamentService) Join(ctx context.Context, tournamentID, userID int64) (*models.Tournament, error) {
	entry, err := s.entry(tournamentID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	t := entry.tournament
	switch {
	case !t.IsOpen():
		entry.mu.Unlock()
		return nil, ErrRegistrationClosed
	case t.IsParticipant(userID):
		entry.mu.Unlock()
		return nil, ErrAlreadyJoined
	case t.IsFull():
		err := withDetail(ErrTournamentFull, "%d/%d participants", len(t.Participants), t.Size)
		entry.mu.Unlock()
		return nil, err
	}

	t.Participants = append(t.Participants, userID)
	snapshot := s.persistLocked(ctx, entry, "join")
	entry.mu.Unlock()

	s.emit(ctx, events.TournamentParticipantsChangedEvent{
		TournamentID: tournamentID,
		UserID:       userID,
		Joined:       true,
		Count:        len(snapshot.Participants),
		Size:         snapshot.Size,
	})
	return snapshot, nil
}

// Leave removes a participant while registration is open
func (s *tournamentService) Leave(ctx context.Context, tournamentID, userID int64) (*models.Tournament, error) {
	entry, err := s.entry(tournamentID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	t := entry.tournament
	if !t.IsOpen() {
		entry.mu.Unlock()
		return nil, ErrRegistrationClosed
	}
	idx := slices.Index(t.Participants, userID)
	if idx < 0 {
		entry.mu.Unlock()
		return nil, ErrNotParticipant
	}

	t.Participants = slices.Delete(t.Participants, idx, idx+1)
	snapshot := s.persistLocked(ctx, entry, "leave")
	entry.mu.Unlock()

	s.emit(ctx, events.TournamentParticipantsChangedEvent{
		TournamentID: tournamentID,
		UserID:       userID,
		Joined:       false,
		Count:        len(snapshot.Participants),
		Size:         snapshot.Size,
	})
	return snapshot, nil
}

// Start moves a tournament from registration to active.
// isAuthorized comes from the caller's capability check; the registry does not look up roles.
func (s *tournamentService) Start(ctx context.Context, tournamentID, requesterID int64, isAuthorized bool) (*models.Tournament, error) {
	entry, err := s.entry(tournamentID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	t := entry.tournament
	if !t.IsOpen() {
		entry.mu.Unlock()
		return nil, ErrRegistrationClosed
	}
	if !isAuthorized {
		entry.mu.Unlock()
		log.WithFields(log.Fields{
			"tournament_id": tournamentID,
			"user_id":       requesterID,
		}).Warn("Unauthorized attempt to start tournament")
		return nil, ErrNotAuthorized
	}
	if len(t.Participants) < s.config.MinParticipants {
		err := withDetail(ErrQuorumNotMet, "need %d participants, have %d", s.config.MinParticipants, len(t.Participants))
		entry.mu.Unlock()
		return nil, err
	}

	now := s.now()
	t.Status = models.TournamentStatusActive
	t.StartedAt = &now
	t.StartedBy = &requesterID
	snapshot := s.persistLocked(ctx, entry, "start")
	entry.mu.Unlock()

	log.WithFields(log.Fields{
		"tournament_id": tournamentID,
		"started_by":    requesterID,
		"participants":  len(snapshot.Participants),
	}).Info("Tournament started")

	s.emit(ctx, events.TournamentStateChangeEvent{
		TournamentID:    tournamentID,
		OldStatus:       models.TournamentStatusRegistration,
		NewStatus:       models.TournamentStatusActive,
		ActorID:         requesterID,
		ChannelID:       snapshot.ChannelID,
		StatusMessageID: snapshot.StatusMessageID,
	})
	return snapshot, nil
}

// Complete draws a winner uniformly from the participants and closes the tournament.
// Only the host may complete. Completing straight from registration still requires quorum.
func (s *tournamentService) Complete(ctx context.Context, tournamentID, requesterID int64) (*models.Tournament, error) {
	entry, err := s.entry(tournamentID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	t := entry.tournament
	if t.Status == models.TournamentStatusCompleted {
		entry.mu.Unlock()
		return nil, ErrAlreadyCompleted
	}
	if t.HostID != requesterID {
		entry.mu.Unlock()
		log.WithFields(log.Fields{
			"tournament_id": tournamentID,
			"user_id":       requesterID,
		}).Warn("Non-host attempt to complete tournament")
		return nil, ErrNotHost
	}
	if len(t.Participants) == 0 {
		entry.mu.Unlock()
		return nil, ErrNoParticipants
	}
	if t.IsOpen() && len(t.Participants) < s.config.MinParticipants {
		err := withDetail(ErrQuorumNotMet, "need %d participants, have %d", s.config.MinParticipants, len(t.Participants))
		entry.mu.Unlock()
		return nil, err
	}

	oldStatus := t.Status
	winner := t.Participants[s.rng.IntN(len(t.Participants))]
	now := s.now()
	t.Status = models.TournamentStatusCompleted
	t.WinnerID = &winner
	t.CompletedAt = &now
	snapshot := s.persistLocked(ctx, entry, "complete")
	entry.mu.Unlock()

	log.WithFields(log.Fields{
		"tournament_id": tournamentID,
		"winner_id":     winner,
	}).Info("Tournament completed")

	s.emit(ctx, events.TournamentStateChangeEvent{
		TournamentID:    tournamentID,
		OldStatus:       oldStatus,
		NewStatus:       models.TournamentStatusCompleted,
		ActorID:         requesterID,
		WinnerID:        &winner,
		ChannelID:       snapshot.ChannelID,
		StatusMessageID: snapshot.StatusMessageID,
	})
	return snapshot, nil
}

// Describe returns a snapshot of a tournament
func (s *tournamentService) Describe(ctx context.Context, tournamentID int64) (*models.Tournament, error) {
	entry, err := s.entry(tournamentID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.tournament.Clone(), nil
}

// List returns snapshots matching the filter ordered by id
func (s *tournamentService) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	s.mu.RLock()
	entries := make([]*tournamentEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	result := make([]*models.Tournament, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if filter.Matches(e.tournament) {
			result = append(result, e.tournament.Clone())
		}
		e.mu.Unlock()
	}

	slices.SortFunc(result, func(a, b *models.Tournament) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return result, nil
}

// ResolveByStatusMessage maps a status message back to its tournament
func (s *tournamentService) ResolveByStatusMessage(messageID int64) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byMessage[messageID]
	return id, ok
}

// Restore rehydrates the registry from the store. Existing in-memory state is replaced.
func (s *tournamentService) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	tournaments, err := s.store.LoadTournaments(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tournaments: %w", err)
	}

	entries := make(map[int64]*tournamentEntry, len(tournaments))
	byMessage := make(map[int64]int64)
	var maxID int64
	for _, t := range tournaments {
		if !t.Status.IsValid() {
			log.WithFields(log.Fields{
				"tournament_id": t.ID,
				"status":        t.Status,
			}).Warn("Skipping stored tournament with unknown status")
			continue
		}
		entries[t.ID] = &tournamentEntry{tournament: t.Clone()}
		if t.StatusMessageID != nil {
			byMessage[*t.StatusMessageID] = t.ID
		}
		maxID = max(maxID, t.ID)
	}

	s.mu.Lock()
	s.entries = entries
	s.byMessage = byMessage
	s.nextID = maxID + 1
	s.mu.Unlock()

	log.WithField("count", len(entries)).Info("Restored tournaments")
	return nil
}

func (s *tournamentService) entry(tournamentID int64) (*tournamentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[tournamentID]
	if !ok {
		return nil, withDetail(ErrTournamentNotFound, "tournament %d", tournamentID)
	}
	return entry, nil
}

// persistLocked saves the entry's tournament and returns a snapshot. Caller holds entry.mu.
func (s *tournamentService) persistLocked(ctx context.Context, entry *tournamentEntry, operation string) *models.Tournament {
	snapshot := entry.tournament.Clone()
	if s.store == nil {
		return snapshot
	}
	if err := s.store.SaveTournament(ctx, snapshot); err != nil {
		reportPersistenceFailure(ctx, s.publisher, "tournaments", operation, fmt.Errorf("tournament %d: %w", snapshot.ID, err))
	}
	return entry.tournament.Clone()
}

func (s *tournamentService) emit(ctx context.Context, event events.Event) {
	if s.publisher != nil {
		s.publisher.Emit(ctx, event)
	}
}
