package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ewager/models"
	"ewager/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const (
	defaultLogLimit   = 10
	defaultRollLimit  = 5
	defaultTradeLimit = 20
	maxLimit          = 100
)

// Response is the envelope every endpoint returns
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// StatsView is a user's ledger record plus roll activity
type StatsView struct {
	*models.LedgerStats
	WinRate float64 `json:"win_rate"`
}

// Server is the read-only HTTP view over the bot's state
type Server struct {
	tournaments service.TournamentService
	ledger      service.LedgerService
	rolls       service.RollService
	mux         *chi.Mux

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a server and registers its routes
func New(tournaments service.TournamentService, ledger service.LedgerService, rolls service.RollService) *Server {
	s := &Server{
		tournaments: tournaments,
		ledger:      ledger,
		rolls:       rolls,
		mux:         chi.NewRouter(),
	}
	s.routes()
	return s
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "OK"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/tournaments", s.handleTournamentList)
		r.Get("/tournaments/{id}", s.handleTournamentDetail)
		r.Get("/logs", s.handleLogs)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/stats/{userID}", s.handleStats)
		r.Get("/rolls/{userID}", s.handleRolls)
		r.Get("/trades/{channelID}", s.handleTrades)
	})
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	log.Infof("HTTP API listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleTournamentList(w http.ResponseWriter, r *http.Request) {
	filter := models.TournamentFilter{
		IncludeCompleted: r.URL.Query().Get("all") == "true",
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.TournamentStatus(strings.TrimSpace(part))
			if !status.IsValid() {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", part))
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if raw := r.URL.Query().Get("host"); raw != "" {
		host, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "host must be a user id")
			return
		}
		filter.HostID = &host
	}

	list, err := s.tournaments.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: list})
}

func (s *Server) handleTournamentDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := s.tournaments.Describe(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: t})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be an RFC3339 timestamp")
			return
		}
		entries, err := s.ledger.ResultsSince(r.Context(), since)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Data: entries})
		return
	}

	limit, ok := queryLimit(w, r, defaultLogLimit)
	if !ok {
		return
	}
	entries, err := s.ledger.RecentResults(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: entries})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, defaultLogLimit)
	if !ok {
		return
	}
	rows, err := s.ledger.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: rows})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	stats, err := s.ledger.StatsFor(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	stats.Rolls = s.rolls.RollCount(r.Context(), userID)
	if last, err := s.rolls.History(r.Context(), userID, 1); err == nil && len(last) > 0 {
		stats.LastRoll = last[0]
	}

	view := StatsView{LedgerStats: stats}
	if total := stats.Wins + stats.Losses; total > 0 {
		view.WinRate = float64(stats.Wins) / float64(total)
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: view})
}

func (s *Server) handleRolls(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r, defaultRollLimit)
	if !ok {
		return
	}
	history, err := s.rolls.History(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: history})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "channelID")
	if !ok {
		return
	}
	limit, ok := queryLimit(w, r, defaultTradeLimit)
	if !ok {
		return
	}
	messages, err := s.ledger.RecentTradeMessages(r.Context(), channelID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: messages})
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, param+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func queryLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	return min(limit, maxLimit), true
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindStateConflict:
		status = http.StatusConflict
	case service.KindCollaborator:
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("API request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Warn("Failed to encode API response")
	}
}
