package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ewager/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// pokemonResponse is the subset of the /pokemon/{id} payload the bot reads
type pokemonResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
}

// ErrMalformedEntity is returned when a 200 payload lacks the fields a roll needs
var ErrMalformedEntity = errors.New("malformed catalog entity")

var requiredStats = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// validate requires a name, at least one type and all six base stats
func (p *pokemonResponse) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrMalformedEntity)
	}
	if len(p.Types) == 0 {
		return fmt.Errorf("%w: no types", ErrMalformedEntity)
	}
	for _, t := range p.Types {
		if t.Type.Name == "" {
			return fmt.Errorf("%w: unnamed type", ErrMalformedEntity)
		}
	}

	seen := make(map[string]bool, len(p.Stats))
	for _, s := range p.Stats {
		seen[s.Stat.Name] = true
	}
	for _, name := range requiredStats {
		if !seen[name] {
			return fmt.Errorf("%w: missing stat %s", ErrMalformedEntity, name)
		}
	}
	return nil
}

// StatusError is returned when the catalog answers with a non-200 status
type StatusError struct {
	ID         int
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d for entity %d", e.StatusCode, e.ID)
}

// PokeAPIClient fetches entities from a PokeAPI-compatible server
type PokeAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPokeAPIClient creates a client for baseURL, e.g. https://pokeapi.co/api/v2
func NewPokeAPIClient(baseURL string, timeout time.Duration) *PokeAPIClient {
	return &PokeAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchEntity looks up a single entity by id. Names and types are title-cased for display.
func (c *PokeAPIClient) FetchEntity(ctx context.Context, id int) (*models.CatalogEntity, error) {
	url := fmt.Sprintf("%s/pokemon/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{ID: id, StatusCode: resp.StatusCode}
	}

	var payload pokemonResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode entity %d: %w", id, err)
	}
	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("failed to decode entity %d: %w", id, err)
	}

	log.WithFields(log.Fields{
		"catalog_id": id,
		"duration":   time.Since(start),
	}).Debug("Fetched catalog entity")

	return toEntity(id, &payload), nil
}

func toEntity(id int, p *pokemonResponse) *models.CatalogEntity {
	// Casers carry state, so one per conversion
	title := cases.Title(language.English)

	entity := &models.CatalogEntity{
		ID:        id,
		Name:      title.String(p.Name),
		Height:    p.Height,
		Weight:    p.Weight,
		SpriteURL: p.Sprites.FrontDefault,
		Types:     make([]string, 0, len(p.Types)),
	}
	if p.ID != 0 {
		entity.ID = p.ID
	}

	for _, t := range p.Types {
		entity.Types = append(entity.Types, title.String(t.Type.Name))
	}

	for _, s := range p.Stats {
		switch s.Stat.Name {
		case "hp":
			entity.Stats.HP = s.BaseStat
		case "attack":
			entity.Stats.Attack = s.BaseStat
		case "defense":
			entity.Stats.Defense = s.BaseStat
		case "special-attack":
			entity.Stats.SpecialAttack = s.BaseStat
		case "special-defense":
			entity.Stats.SpecialDefense = s.BaseStat
		case "speed":
			entity.Stats.Speed = s.BaseStat
		}
	}
	return entity
}
