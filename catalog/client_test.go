package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mrMimeJSON = `{
	"id": 122,
	"name": "mr-mime",
	"height": 13,
	"weight": 545,
	"types": [
		{"slot": 1, "type": {"name": "psychic"}},
		{"slot": 2, "type": {"name": "fairy"}}
	],
	"stats": [
		{"base_stat": 40, "stat": {"name": "hp"}},
		{"base_stat": 45, "stat": {"name": "attack"}},
		{"base_stat": 65, "stat": {"name": "defense"}},
		{"base_stat": 100, "stat": {"name": "special-attack"}},
		{"base_stat": 120, "stat": {"name": "special-defense"}},
		{"base_stat": 90, "stat": {"name": "speed"}}
	],
	"sprites": {"front_default": "https://img.example/122.png"}
}`

func TestPokeAPIClient_FetchEntity(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mrMimeJSON))
	}))
	defer server.Close()

	client := NewPokeAPIClient(server.URL+"/", time.Second)
	entity, err := client.FetchEntity(context.Background(), 122)
	require.NoError(t, err)

	assert.Equal(t, "/pokemon/122", gotPath)
	assert.Equal(t, 122, entity.ID)
	assert.Equal(t, "Mr-Mime", entity.Name)
	assert.Equal(t, []string{"Psychic", "Fairy"}, entity.Types)
	assert.Equal(t, 13, entity.Height)
	assert.Equal(t, 545, entity.Weight)
	assert.Equal(t, 40, entity.Stats.HP)
	assert.Equal(t, 100, entity.Stats.SpecialAttack)
	assert.Equal(t, 120, entity.Stats.SpecialDefense)
	assert.Equal(t, 460, entity.Stats.Total())
	assert.Equal(t, "https://img.example/122.png", entity.SpriteURL)
}

func TestPokeAPIClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewPokeAPIClient(server.URL, time.Second)
	_, err := client.FetchEntity(context.Background(), 99999)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestPokeAPIClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":`))
	}))
	defer server.Close()

	client := NewPokeAPIClient(server.URL, time.Second)
	_, err := client.FetchEntity(context.Background(), 1)
	assert.Error(t, err)
}

func TestPokeAPIClient_RejectsIncompletePayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null", `null`},
		{"blank name", `{"id":137,"name":""}`},
		{"no types", `{"id":137,"name":"porygon","types":[],"stats":[{"base_stat":65,"stat":{"name":"hp"}}]}`},
		{"missing stats", `{"id":137,"name":"porygon","types":[{"slot":1,"type":{"name":"normal"}}],"stats":[{"base_stat":65,"stat":{"name":"hp"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewPokeAPIClient(server.URL, time.Second)
			entity, err := client.FetchEntity(context.Background(), 137)

			assert.Nil(t, entity)
			assert.ErrorIs(t, err, ErrMalformedEntity)
		})
	}
}

func TestPokeAPIClient_RespectsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewPokeAPIClient(server.URL, 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.FetchEntity(ctx, 1)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
