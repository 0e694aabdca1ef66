package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/cache"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/clickhouse"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/dal"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/engine"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/logger"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
	"github.com/obasola/sports-mgmt-app-server-sub003/internal/pubsub"
)

// AnalyticsSink receives best-effort history rows. The ClickHouse client
// implements it; the mocks package provides a logging stand-in for dev.
type AnalyticsSink interface {
	RecordStandings(ctx context.Context, seasonYear string, seasonType models.SeasonType, throughWeek *int, standings []models.TeamStanding) error
	RecordSnapshot(ctx context.Context, snapshot *models.DraftOrderSnapshot) error
	TeamRankHistory(ctx context.Context, seasonYear, teamID string) ([]clickhouse.RankSample, error)
}

// APIHandlers contains all API handler methods
type APIHandlers struct {
	store     dal.LeagueDAL
	pubsub    *pubsub.PubSub
	snapshots *engine.SnapshotService
	cache     *cache.StandingsCache // optional
	analytics AnalyticsSink         // optional
}

// NewAPIHandlers creates a new API handlers instance. Cache and analytics may
// be nil; the handlers degrade to computing everything on demand.
func NewAPIHandlers(store dal.LeagueDAL, ps *pubsub.PubSub, snapshots *engine.SnapshotService) *APIHandlers {
	return &APIHandlers{
		store:     store,
		pubsub:    ps,
		snapshots: snapshots,
	}
}

// WithCache attaches a Redis read-through cache
func (h *APIHandlers) WithCache(c *cache.StandingsCache) *APIHandlers {
	h.cache = c
	return h
}

// WithAnalytics attaches a standings-history sink
func (h *APIHandlers) WithAnalytics(sink AnalyticsSink) *APIHandlers {
	h.analytics = sink
	return h
}

// writeError maps engine and storage errors onto HTTP status codes
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrDataIntegrity):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, dal.ErrNotFound):
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// seasonParams pulls the shared seasonYear/seasonType/throughWeek query
// parameters. seasonType defaults to regular season.
func seasonParams(r *http.Request) (string, models.SeasonType, *int, error) {
	seasonYear := r.URL.Query().Get("seasonYear")
	if seasonYear == "" {
		return "", 0, nil, fmt.Errorf("%w: seasonYear is required", engine.ErrValidation)
	}

	seasonType := models.SeasonTypeRegular
	if raw := r.URL.Query().Get("seasonType"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			return "", 0, nil, fmt.Errorf("%w: seasonType must be a number", engine.ErrValidation)
		}
		seasonType = models.SeasonType(code)
	}
	if !seasonType.Valid() {
		return "", 0, nil, fmt.Errorf("%w: unrecognized seasonType code %d", engine.ErrValidation, seasonType)
	}

	var throughWeek *int
	if raw := r.URL.Query().Get("throughWeek"); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil {
			return "", 0, nil, fmt.Errorf("%w: throughWeek must be a number", engine.ErrValidation)
		}
		throughWeek = &week
	}

	return seasonYear, seasonType, throughWeek, nil
}

func (h *APIHandlers) computeStandings(r *http.Request, seasonYear string, seasonType models.SeasonType, throughWeek *int) ([]models.TeamStanding, error) {
	if h.cache != nil {
		if standings, ok := h.cache.GetStandings(r.Context(), seasonYear, seasonType, throughWeek); ok {
			return standings, nil
		}
	}

	games, err := h.store.ListFinalGames(seasonYear, seasonType, throughWeek)
	if err != nil {
		return nil, err
	}
	teams, err := h.store.TeamsByID()
	if err != nil {
		return nil, err
	}

	standings, err := engine.ComputeStandings(games, teams)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetStandings(r.Context(), seasonYear, seasonType, throughWeek, standings); err != nil {
			logger.Warn("Failed to cache standings", "error", err)
		}
	}
	if h.analytics != nil {
		if err := h.analytics.RecordStandings(r.Context(), seasonYear, seasonType, throughWeek, standings); err != nil {
			logger.Warn("Failed to record standings history", "error", err)
		}
	}

	return standings, nil
}

// GetStandings returns computed standings for a season scope
func (h *APIHandlers) GetStandings(w http.ResponseWriter, r *http.Request) {
	seasonYear, seasonType, throughWeek, err := seasonParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	standings, err := h.computeStandings(r, seasonYear, seasonType, throughWeek)
	if err != nil {
		logger.Error("Failed to compute standings", "seasonYear", seasonYear, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, standings)
}

// GetTeamRankHistory returns a team's recorded standings positions over a
// season, read back from the analytics store. 404 when no sink is attached.
func (h *APIHandlers) GetTeamRankHistory(w http.ResponseWriter, r *http.Request) {
	seasonYear := r.URL.Query().Get("seasonYear")
	teamID := r.URL.Query().Get("teamId")
	if seasonYear == "" || teamID == "" {
		writeError(w, fmt.Errorf("%w: seasonYear and teamId are required", engine.ErrValidation))
		return
	}
	if h.analytics == nil {
		writeError(w, fmt.Errorf("%w: rank history not available", dal.ErrNotFound))
		return
	}

	samples, err := h.analytics.TeamRankHistory(r.Context(), seasonYear, teamID)
	if err != nil {
		logger.Error("Failed to load rank history", "seasonYear", seasonYear, "teamId", teamID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, samples)
}

// ComputeDraftOrder computes and persists a draft-order snapshot
func (h *APIHandlers) ComputeDraftOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SeasonYear  string `json:"seasonYear"`
		SeasonType  int    `json:"seasonType"`
		ThroughWeek *int   `json:"throughWeek"`
		Mode        string `json:"mode"`
		Strategy    string `json:"strategy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode draft-order request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	compute := engine.SnapshotRequest{
		SeasonYear:  req.SeasonYear,
		SeasonType:  models.SeasonType(req.SeasonType),
		ThroughWeek: req.ThroughWeek,
		Mode:        models.SnapshotMode(req.Mode),
		Strategy:    req.Strategy,
	}
	if err := h.snapshots.Validate(&compute); err != nil {
		writeError(w, err)
		return
	}

	games, err := h.store.ListFinalGames(compute.SeasonYear, compute.SeasonType, compute.ThroughWeek)
	if err != nil {
		writeError(w, err)
		return
	}
	teams, err := h.store.TeamsByID()
	if err != nil {
		writeError(w, err)
		return
	}

	snapshot, err := h.snapshots.Compute(compute, games, teams)
	if err != nil {
		logger.Error("Draft-order computation failed", "seasonYear", compute.SeasonYear, "error", err)
		writeError(w, err)
		return
	}

	stored, err := h.store.CreateSnapshot(snapshot)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Draft-order snapshot created", "snapshotId", stored.ID, "mode", stored.Mode)

	if h.analytics != nil {
		if err := h.analytics.RecordSnapshot(r.Context(), stored); err != nil {
			logger.Warn("Failed to record snapshot audit row", "error", err)
		}
	}

	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventDraftOrderComputed,
		Payload: map[string]interface{}{
			"code":       "OK",
			"snapshotId": stored.ID,
			"mode":       string(stored.Mode),
		},
	})

	writeJSON(w, http.StatusCreated, stored)
}

// GetSnapshot returns a single draft-order snapshot by ID
func (h *APIHandlers) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	snapshot, err := h.store.GetSnapshot(id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// ListSnapshots returns all snapshots recorded for a season
func (h *APIHandlers) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	seasonYear := r.URL.Query().Get("seasonYear")
	if seasonYear == "" {
		http.Error(w, "Missing seasonYear parameter", http.StatusBadRequest)
		return
	}

	snapshots, err := h.store.ListSnapshots(seasonYear)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshots)
}

func (h *APIHandlers) computeSeeds(r *http.Request, seasonYear string, throughWeek *int) (map[models.Conference][]models.PlayoffSeed, error) {
	standings, err := h.computeStandings(r, seasonYear, models.SeasonTypeRegular, throughWeek)
	if err != nil {
		return nil, err
	}
	return engine.ComputeSeeds(standings)
}

// GetPlayoffSeeds returns the seeded playoff field per conference
func (h *APIHandlers) GetPlayoffSeeds(w http.ResponseWriter, r *http.Request) {
	seasonYear, _, throughWeek, err := seasonParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	seeds, err := h.computeSeeds(r, seasonYear, throughWeek)
	if err != nil {
		logger.Error("Failed to compute playoff seeds", "seasonYear", seasonYear, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, seeds)
}

// GetPlayoffBracket builds the bracket for a season. mode=actual (default)
// threads completed playoff games; mode=projected also advances undecided
// matchups by seed.
func (h *APIHandlers) GetPlayoffBracket(w http.ResponseWriter, r *http.Request) {
	seasonYear, _, _, err := seasonParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "actual"
	}
	if mode != "actual" && mode != "projected" {
		writeError(w, fmt.Errorf("%w: unrecognized bracket mode %q", engine.ErrValidation, mode))
		return
	}

	if h.cache != nil {
		if bracket, ok := h.cache.GetBracket(r.Context(), seasonYear, mode); ok {
			writeJSON(w, http.StatusOK, bracket)
			return
		}
	}

	seeds, err := h.computeSeeds(r, seasonYear, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	playoffGames, err := h.store.ListPlayoffGames(seasonYear)
	if err != nil {
		writeError(w, err)
		return
	}

	var bracket *models.PlayoffBracket
	if mode == "projected" {
		bracket, err = engine.BuildProjectedBracket(seasonYear, seeds, playoffGames, engine.ChalkPolicy{})
	} else {
		bracket, err = engine.BuildBracket(seasonYear, seeds, playoffGames)
	}
	if err != nil {
		logger.Error("Failed to build bracket", "seasonYear", seasonYear, "mode", mode, "error", err)
		writeError(w, err)
		return
	}

	if err := h.store.SaveBracket(bracket); err != nil {
		logger.Warn("Failed to persist bracket", "error", err)
	}
	if h.cache != nil {
		if err := h.cache.SetBracket(r.Context(), seasonYear, mode, bracket); err != nil {
			logger.Warn("Failed to cache bracket", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, bracket)
}

// RecordGameResult ingests one game fact
func (h *APIHandlers) RecordGameResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var game models.GameFact
	if err := json.NewDecoder(r.Body).Decode(&game); err != nil {
		logger.Warn("Failed to decode game result", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if game.SeasonYear == "" {
		writeError(w, fmt.Errorf("%w: seasonYear is required", engine.ErrValidation))
		return
	}
	if !game.SeasonType.Valid() {
		writeError(w, fmt.Errorf("%w: unrecognized seasonType code %d", engine.ErrValidation, game.SeasonType))
		return
	}
	if game.HomeTeamID == "" || game.AwayTeamID == "" || game.HomeTeamID == game.AwayTeamID {
		writeError(w, fmt.Errorf("%w: a game needs two distinct teams", engine.ErrValidation))
		return
	}

	teams, err := h.store.TeamsByID()
	if err != nil {
		writeError(w, err)
		return
	}
	for _, id := range []string{game.HomeTeamID, game.AwayTeamID} {
		if _, ok := teams[id]; !ok {
			writeError(w, fmt.Errorf("%w: unknown team %q", engine.ErrValidation, id))
			return
		}
	}

	stored, err := h.store.AddGame(&game)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Game result recorded", "gameId", stored.ID, "seasonYear", stored.SeasonYear)

	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context(), stored.SeasonYear); err != nil {
			logger.Warn("Failed to invalidate cache", "error", err)
		}
	}

	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventGameRecorded,
		Payload: map[string]interface{}{
			"gameId":     stored.ID,
			"seasonYear": stored.SeasonYear,
		},
	})
	if stored.Final() {
		h.pubsub.Publish(pubsub.Event{
			Type: pubsub.EventStandingsUpdated,
			Payload: map[string]interface{}{
				"seasonYear": stored.SeasonYear,
			},
		})
	}

	writeJSON(w, http.StatusCreated, stored)
}

// ListTeams returns all teams
func (h *APIHandlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, teams)
}

// ResetLeague resets all game and snapshot data to initial state
func (h *APIHandlers) ResetLeague(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger.Info("Resetting league data")
	if err := h.store.Reset(); err != nil {
		logger.Error("Failed to reset league data", "error", err)
		writeError(w, err)
		return
	}

	h.pubsub.Publish(pubsub.Event{Type: pubsub.EventLeagueReset})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			// Send keepalive ping
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
