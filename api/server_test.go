package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ewager/models"
	"ewager/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedRandomizer struct{}

func (fixedRandomizer) IntN(n int) int { return 0 }

type testEnv struct {
	server      *Server
	tournaments service.TournamentService
	ledger      service.LedgerService
	rolls       service.RollService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	catalog := &service.MockCatalogClient{}
	catalog.On("FetchEntity", mock.Anything, 1).Return(&models.CatalogEntity{
		ID:    1,
		Name:  "Bulbasaur",
		Types: []string{"Grass", "Poison"},
		Stats: models.BaseStats{HP: 45, Attack: 49, Defense: 49, SpecialAttack: 65, SpecialDefense: 65, Speed: 45},
	}, nil)

	tournaments := service.NewTournamentService(nil, nil, fixedRandomizer{}, service.TournamentConfig{MinSize: 4, MaxSize: 50, MinParticipants: 2})
	ledger := service.NewLedgerService(nil, nil)
	rolls := service.NewRollService(catalog, nil, nil, fixedRandomizer{}, service.RollConfig{CatalogSize: 1025})

	return &testEnv{
		server:      New(tournaments, ledger, rolls),
		tournaments: tournaments,
		ledger:      ledger,
		rolls:       rolls,
	}
}

func (e *testEnv) get(t *testing.T, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.get(t, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestTournamentEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.tournaments.Create(ctx, service.CreateTournamentParams{HostID: 10, Size: 8, GuildID: 1, ChannelID: 2})
	require.NoError(t, err)
	_, err = env.tournaments.Join(ctx, created.ID, 11)
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		rec, body := env.get(t, "/api/tournaments")
		assert.Equal(t, http.StatusOK, rec.Code)
		list, ok := body.Data.([]any)
		require.True(t, ok)
		assert.Len(t, list, 1)
	})

	t.Run("list with unknown status", func(t *testing.T) {
		rec, body := env.get(t, "/api/tournaments?status=paused")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, body.Success)
	})

	t.Run("list filtered to completed", func(t *testing.T) {
		rec, body := env.get(t, "/api/tournaments?status=completed")
		assert.Equal(t, http.StatusOK, rec.Code)
		list, _ := body.Data.([]any)
		assert.Empty(t, list)
	})

	t.Run("detail", func(t *testing.T) {
		rec, body := env.get(t, "/api/tournaments/1")
		assert.Equal(t, http.StatusOK, rec.Code)
		detail, ok := body.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "registration", detail["status"])
		assert.Equal(t, []any{float64(11)}, detail["participants"])
	})

	t.Run("missing", func(t *testing.T) {
		rec, body := env.get(t, "/api/tournaments/99")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, body.Error, "tournament not found")
	})

	t.Run("bad id", func(t *testing.T) {
		rec, _ := env.get(t, "/api/tournaments/abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLedgerEndpoints(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.LogManualResult(ctx, 1, 2, 1, 42, 50)
	require.NoError(t, err)
	_, err = env.ledger.LogManualResult(ctx, 1, 3, 1, 42, 50)
	require.NoError(t, err)
	_, err = env.ledger.LogManualResult(ctx, 2, 1, 2, 42, 50)
	require.NoError(t, err)
	require.NoError(t, env.ledger.LogTradeMessage(ctx, 7, 50, "trading my shiny"))

	t.Run("recent logs newest first", func(t *testing.T) {
		rec, body := env.get(t, "/api/logs?limit=2")
		assert.Equal(t, http.StatusOK, rec.Code)
		logs, ok := body.Data.([]any)
		require.True(t, ok)
		require.Len(t, logs, 2)
		assert.Equal(t, float64(3), logs[0].(map[string]any)["sequence"])
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec, _ := env.get(t, "/api/logs?limit=0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("since", func(t *testing.T) {
		rec, body := env.get(t, "/api/logs?since=2000-01-01T00:00:00Z")
		assert.Equal(t, http.StatusOK, rec.Code)
		logs, _ := body.Data.([]any)
		assert.Len(t, logs, 3)
	})

	t.Run("leaderboard", func(t *testing.T) {
		rec, body := env.get(t, "/api/leaderboard")
		assert.Equal(t, http.StatusOK, rec.Code)
		rows, ok := body.Data.([]any)
		require.True(t, ok)
		first := rows[0].(map[string]any)
		assert.Equal(t, float64(1), first["user_id"])
		assert.Equal(t, float64(2), first["wins"])
	})

	t.Run("stats", func(t *testing.T) {
		rec, body := env.get(t, "/api/stats/1")
		assert.Equal(t, http.StatusOK, rec.Code)
		stats := body.Data.(map[string]any)
		assert.Equal(t, float64(2), stats["wins"])
		assert.Equal(t, float64(1), stats["losses"])
		assert.InDelta(t, 0.667, stats["win_rate"], 0.001)
	})

	t.Run("trades", func(t *testing.T) {
		rec, body := env.get(t, "/api/trades/50")
		assert.Equal(t, http.StatusOK, rec.Code)
		trades, _ := body.Data.([]any)
		require.Len(t, trades, 1)
		assert.Equal(t, "trading my shiny", trades[0].(map[string]any)["content"])
	})
}

func TestRollEndpoints(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rolls.RollCatalog(context.Background(), 5)
	require.NoError(t, err)

	rec, body := env.get(t, "/api/rolls/5")
	assert.Equal(t, http.StatusOK, rec.Code)
	history, ok := body.Data.([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, "Bulbasaur", history[0].(map[string]any)["name"])

	_, body = env.get(t, "/api/stats/5")
	stats := body.Data.(map[string]any)
	assert.Equal(t, float64(1), stats["rolls"])
	assert.NotNil(t, stats["last_roll"])
}
