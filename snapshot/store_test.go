package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ewager/models"
	"ewager/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ service.StateStore = (*Store)(nil)

func TestStore_EmptyBlob(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&MemoryBlob{})

	tournaments, err := store.LoadTournaments(ctx)
	require.NoError(t, err)
	assert.Empty(t, tournaments)

	logs, err := store.LoadWagerLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStore_RoundTripThroughBlob(t *testing.T) {
	ctx := context.Background()
	blob := &MemoryBlob{}
	store := NewStore(blob)

	tournament := &models.Tournament{
		ID:           1,
		HostID:       10,
		Size:         8,
		Participants: []int64{11, 12},
		Status:       models.TournamentStatusRegistration,
	}
	require.NoError(t, store.SaveTournament(ctx, tournament))
	require.NoError(t, store.AppendWagerLog(ctx, &models.WagerLogEntry{Sequence: 1, WinnerID: 1, LoserID: 2}))
	require.NoError(t, store.AppendTradeMessage(ctx, &models.TradeMessage{UserID: 1, ChannelID: 100, Content: "wts"}))
	require.NoError(t, store.AppendRoll(ctx, &models.RollRecord{UserID: 7, CatalogID: 25, Name: "Pikachu", Types: []string{"electric"}, Level: 5}))
	assert.Equal(t, 4, blob.Writes())

	// Caller mutations after save do not leak into the store
	tournament.Participants[0] = 99

	reopened := NewStore(blob)
	tournaments, err := reopened.LoadTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	assert.Equal(t, []int64{11, 12}, tournaments[0].Participants)

	logs, err := reopened.LoadWagerLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(1), logs[0].WinnerID)

	trades, err := reopened.LoadTradeMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, trades, 1)

	rolls, err := reopened.LoadRolls(ctx)
	require.NoError(t, err)
	require.Len(t, rolls, 1)
	assert.Equal(t, "Pikachu", rolls[0].Name)
}

func TestStore_SaveTournamentReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&MemoryBlob{})

	require.NoError(t, store.SaveTournament(ctx, &models.Tournament{ID: 2, Size: 4, Status: models.TournamentStatusRegistration}))
	require.NoError(t, store.SaveTournament(ctx, &models.Tournament{ID: 1, Size: 4, Status: models.TournamentStatusRegistration}))
	require.NoError(t, store.SaveTournament(ctx, &models.Tournament{ID: 2, Size: 4, Status: models.TournamentStatusActive}))

	tournaments, err := store.LoadTournaments(ctx)
	require.NoError(t, err)
	require.Len(t, tournaments, 2)
	assert.Equal(t, int64(1), tournaments[0].ID)
	assert.Equal(t, models.TournamentStatusActive, tournaments[1].Status)
}

func TestStore_DuplicateSequenceRejected(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&MemoryBlob{})

	require.NoError(t, store.AppendWagerLog(ctx, &models.WagerLogEntry{Sequence: 1, WinnerID: 1, LoserID: 2}))
	assert.Error(t, store.AppendWagerLog(ctx, &models.WagerLogEntry{Sequence: 1, WinnerID: 3, LoserID: 4}))
}

func TestStore_TradeMessagesCapped(t *testing.T) {
	ctx := context.Background()
	blob := &MemoryBlob{}
	store := NewStore(blob, WithTradeMessageLimit(3))

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.AppendTradeMessage(ctx, &models.TradeMessage{UserID: int64(i), ChannelID: 77}))
	}

	reopened := NewStore(blob)
	messages, err := reopened.LoadTradeMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, int64(3), messages[0].UserID)
	assert.Equal(t, int64(5), messages[2].UserID)
}

func TestStore_TradeMessageCapDisabled(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&MemoryBlob{}, WithTradeMessageLimit(0))

	for i := 0; i < DefaultTradeMessageLimit+5; i++ {
		require.NoError(t, store.AppendTradeMessage(ctx, &models.TradeMessage{UserID: int64(i)}))
	}

	messages, err := store.LoadTradeMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, messages, DefaultTradeMessageLimit+5)
}

func TestStore_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	blob := &MemoryBlob{}
	require.NoError(t, blob.Write(ctx, []byte("{not json")))

	_, err := NewStore(blob).LoadTournaments(ctx)
	assert.Error(t, err)
}

func TestStore_NewerVersionRejected(t *testing.T) {
	ctx := context.Background()
	blob := &MemoryBlob{}
	data, err := json.Marshal(document{Version: documentVersion + 1})
	require.NoError(t, err)
	require.NoError(t, blob.Write(ctx, data))

	_, err = NewStore(blob).LoadWagerLogs(ctx)
	assert.ErrorContains(t, err, "newer than supported")
}

type failingBlob struct{}

func (failingBlob) Read(ctx context.Context) ([]byte, error) { return nil, ErrNotFound }
func (failingBlob) Write(ctx context.Context, data []byte) error {
	return errors.New("read-only filesystem")
}

func TestStore_WriteFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingBlob{})
	err := store.AppendRoll(ctx, &models.RollRecord{UserID: 1, Level: 1})
	assert.ErrorContains(t, err, "read-only filesystem")
}

func TestStore_ServicesRestoreFromSnapshot(t *testing.T) {
	ctx := context.Background()
	blob := &MemoryBlob{}
	cfg := service.TournamentConfig{MinSize: 4, MaxSize: 50, MinParticipants: 2}

	tournaments := service.NewTournamentService(NewStore(blob), nil, nil, cfg)
	created, err := tournaments.Create(ctx, service.CreateTournamentParams{HostID: 1, Size: 4})
	require.NoError(t, err)
	_, err = tournaments.Join(ctx, created.ID, 2)
	require.NoError(t, err)

	restored := service.NewTournamentService(NewStore(blob), nil, nil, cfg)
	require.NoError(t, restored.Restore(ctx))

	got, err := restored.Describe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, got.Participants)

	next, err := restored.Create(ctx, service.CreateTournamentParams{HostID: 1, Size: 4})
	require.NoError(t, err)
	assert.Equal(t, created.ID+1, next.ID)
}

func TestFileBlob(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	blob := NewFileBlob(path)

	_, err := blob.Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, blob.Write(ctx, []byte(`{"version":1}`)))
	require.NoError(t, blob.Write(ctx, []byte(`{"version":1,"tournaments":[]}`)))

	data, err := blob.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"tournaments":[]}`, string(data))

	// No temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileBlob_MissingDirectory(t *testing.T) {
	blob := NewFileBlob(filepath.Join(t.TempDir(), "missing", "state.json"))
	assert.Error(t, blob.Write(context.Background(), []byte("{}")))
}
