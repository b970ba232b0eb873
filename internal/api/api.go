// Package api serves the planner over HTTP and WebSocket.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/p-n-ai/pai-planner/internal/catalog"
	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/navigation"
	"github.com/p-n-ai/pai-planner/internal/route"
	"github.com/p-n-ai/pai-planner/internal/session"
	"github.com/p-n-ai/pai-planner/internal/settings"
)

const (
	maxBodyBytes          = 1 << 20
	defaultTimerSeconds   = 600
	defaultSessionTickDur = time.Second
)

// Config holds dependencies for the API handlers.
type Config struct {
	Catalog    *catalog.Catalog
	Resolver   *route.Resolver
	Navigation *navigation.Service
	Settings   *settings.Store
	Events     session.EventLogger

	// TimerSeconds is used when start_timer omits a duration and the
	// teacher profile has none.
	TimerSeconds int
	// TickInterval is the session countdown period (default one second).
	TickInterval time.Duration
	// Now is the clock for term week lookups and new lessons.
	Now func() time.Time
}

// Handler serves the planner API.
type Handler struct {
	catalog      *catalog.Catalog
	resolver     *route.Resolver
	nav          *navigation.Service
	settings     *settings.Store
	events       session.EventLogger
	timerSeconds int
	tick         time.Duration
	now          func() time.Time
}

// New creates a Handler. Catalog, Navigation and Settings are required.
func New(cfg Config) *Handler {
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = route.NewResolver()
	}
	events := cfg.Events
	if events == nil {
		events = session.NopEventLogger{}
	}
	timerSeconds := cfg.TimerSeconds
	if timerSeconds <= 0 {
		timerSeconds = defaultTimerSeconds
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = defaultSessionTickDur
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		catalog:      cfg.Catalog,
		resolver:     resolver,
		nav:          cfg.Navigation,
		settings:     cfg.Settings,
		events:       events,
		timerSeconds: timerSeconds,
		tick:         tick,
		now:          now,
	}
}

// Register mounts every API route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/activities", h.handleListActivities)
	mux.HandleFunc("GET /api/activities/{id}", h.handleGetActivity)
	mux.HandleFunc("GET /api/themes", h.handleThemes)
	mux.HandleFunc("GET /api/units", h.handleUnits)

	mux.HandleFunc("POST /api/lessons", h.handleCreateLesson)
	mux.HandleFunc("POST /api/lessons/export", h.handleExportLesson)
	mux.HandleFunc("POST /api/route", h.handleRoute)
	mux.HandleFunc("GET /api/handoff/{token}", h.handleTakeHandoff)

	mux.HandleFunc("GET /api/settings/profile", h.handleGetProfile)
	mux.HandleFunc("PUT /api/settings/profile", h.handlePutProfile)
	mux.HandleFunc("GET /api/settings/terms", h.handleGetTerms)
	mux.HandleFunc("PUT /api/settings/terms", h.handlePutTerms)
	mux.HandleFunc("GET /api/settings/week", h.handleCurrentWeek)

	mux.HandleFunc("GET /ws/session", h.handleSession)
}

type errorResponse struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeAssemblyError maps lesson assembly errors to 422 with the missing
// parts listed. It reports false for any other error.
func writeAssemblyError(w http.ResponseWriter, err error) bool {
	var ae *lesson.AssemblyError
	if !errors.As(err, &ae) {
		return false
	}
	kind := "incomplete_phases"
	if errors.Is(err, lesson.ErrMissingRequiredCriteria) {
		kind = "missing_required_criteria"
	}
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Error:   ae.Error(),
		Kind:    kind,
		Missing: ae.Missing,
	})
	return true
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
