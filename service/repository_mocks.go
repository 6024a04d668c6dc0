package service

import (
	"context"

	"ewager/events"
	"ewager/models"

	"github.com/stretchr/testify/mock"
)

// MockTournamentStore is a mock implementation of TournamentStore
type MockTournamentStore struct {
	mock.Mock
}

func (m *MockTournamentStore) LoadTournaments(ctx context.Context) ([]*models.Tournament, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentStore) SaveTournament(ctx context.Context, tournament *models.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) LoadWagerLogs(ctx context.Context) ([]*models.WagerLogEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WagerLogEntry), args.Error(1)
}

func (m *MockLedgerStore) AppendWagerLog(ctx context.Context, entry *models.WagerLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerStore) LoadTradeMessages(ctx context.Context) ([]*models.TradeMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TradeMessage), args.Error(1)
}

func (m *MockLedgerStore) AppendTradeMessage(ctx context.Context, message *models.TradeMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// MockRollStore is a mock implementation of RollStore
type MockRollStore struct {
	mock.Mock
}

func (m *MockRollStore) LoadRolls(ctx context.Context) ([]*models.RollRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RollRecord), args.Error(1)
}

func (m *MockRollStore) AppendRoll(ctx context.Context, record *models.RollRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockCatalogClient is a mock implementation of CatalogClient
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchEntity(ctx context.Context, id int) (*models.CatalogEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CatalogEntity), args.Error(1)
}

// MockAuthorizer is a mock implementation of Authorizer
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) IsModerator(ctx context.Context, guildID, channelID, userID int64) bool {
	args := m.Called(ctx, guildID, channelID, userID)
	return args.Bool(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Emit(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

// MockTournamentService is a mock implementation of TournamentService
type MockTournamentService struct {
	mock.Mock
}

func (m *MockTournamentService) Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) BindStatusMessage(ctx context.Context, tournamentID, messageID int64) error {
	args := m.Called(ctx, tournamentID, messageID)
	return args.Error(0)
}

func (m *MockTournamentService) Join(ctx context.Context, tournamentID, userID int64) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) Leave(ctx context.Context, tournamentID, userID int64) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) Start(ctx context.Context, tournamentID, requesterID int64, isAuthorized bool) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID, requesterID, isAuthorized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) Complete(ctx context.Context, tournamentID, requesterID int64) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) Describe(ctx context.Context, tournamentID int64) (*models.Tournament, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tournament), args.Error(1)
}

func (m *MockTournamentService) ResolveByStatusMessage(messageID int64) (int64, bool) {
	args := m.Called(messageID)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockTournamentService) Restore(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
