package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/p-n-ai/pai-planner/internal/export"
	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/navigation"
	"github.com/p-n-ai/pai-planner/internal/route"
	"github.com/p-n-ai/pai-planner/internal/settings"
)

func errBadWeek(v string) error {
	return fmt.Errorf("week must be a non-negative integer, got %q", v)
}

type createLessonRequest struct {
	ActivityIDs []string              `json:"activity_ids"`
	Criteria    lesson.FilterCriteria `json:"criteria"`
	// UseTermWeek fills Criteria.Week from the saved term calendar when the
	// request leaves it unset.
	UseTermWeek bool `json:"use_term_week,omitempty"`
}

type lessonResponse struct {
	Lesson  lesson.Lesson      `json:"lesson"`
	Plan    route.Plan         `json:"plan"`
	Handoff navigation.Handoff `json:"handoff"`
}

func (h *Handler) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req createLessonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Criteria.Week < 0 {
		writeError(w, http.StatusBadRequest, errBadWeek(fmt.Sprint(req.Criteria.Week)).Error())
		return
	}

	asm := lesson.NewAssembler(lesson.WithClock(h.now))
	for _, id := range req.ActivityIDs {
		act, ok := h.catalog.Get(id)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown activity: "+id)
			return
		}
		asm.Select(act)
	}

	criteria := req.Criteria
	if req.UseTermWeek && criteria.Week == 0 {
		_, week, ok, err := h.settings.CurrentWeek(r.Context(), settings.DateOf(h.now()))
		if err != nil {
			slog.Warn("term week lookup failed", "error", err)
		} else if ok {
			criteria.Week = week
		}
	}

	l, err := asm.Assemble(criteria)
	if err != nil {
		if writeAssemblyError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plan := h.resolver.Plan(l)
	handoff, err := h.nav.Start(r.Context(), l, plan)
	if err != nil {
		slog.Error("failed to store lesson handoff", "lesson_id", l.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start lesson")
		return
	}

	slog.Info("lesson assembled",
		"lesson_id", l.ID,
		"subject", l.Subject,
		"year_group", l.YearGroup,
		"class_id", l.ClassID,
		"theme", l.Theme,
		"week", l.Week,
		"path", handoff.Path,
	)
	writeJSON(w, http.StatusCreated, lessonResponse{Lesson: l, Plan: plan, Handoff: handoff})
}

type lessonBody struct {
	Lesson lesson.Lesson `json:"lesson"`
}

// decodeLesson reads {"lesson": ...} and checks its phases. It writes the
// error response itself.
func decodeLesson(w http.ResponseWriter, r *http.Request, body any, l *lesson.Lesson) bool {
	if err := decodeJSON(r, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	if err := l.Validate(); err != nil {
		if writeAssemblyError(w, err) {
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// routeRequest carries either a lesson or a single activity. Theme and Week
// classify a single activity; a lesson carries its own.
type routeRequest struct {
	Lesson   lesson.Lesson    `json:"lesson"`
	Phase    *lesson.Phase    `json:"phase,omitempty"`
	Activity *lesson.Activity `json:"activity,omitempty"`
	Theme    string           `json:"theme,omitempty"`
	Week     int              `json:"week,omitempty"`
}

type routeResponse struct {
	Phase    lesson.Phase   `json:"phase"`
	Decision route.Decision `json:"decision"`
	Path     string         `json:"path"`
}

// handleRoute resolves a single activity, one phase of a posted lesson, or
// all three phases when the phase is omitted.
func (h *Handler) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if act := req.Activity; act != nil {
		if req.Week < 0 {
			writeError(w, http.StatusBadRequest, errBadWeek(fmt.Sprint(req.Week)).Error())
			return
		}
		d := h.resolver.ResolveActivity(*act, req.Theme, req.Week)
		writeJSON(w, http.StatusOK, routeResponse{Phase: act.Phase(), Decision: d, Path: navigation.PathFor(d, act.Phase())})
		return
	}

	if err := req.Lesson.Validate(); err != nil {
		if writeAssemblyError(w, err) {
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	phases := lesson.Phases()
	if req.Phase != nil {
		phases = []lesson.Phase{*req.Phase}
	}
	out := make([]routeResponse, 0, len(phases))
	for _, p := range phases {
		d := h.resolver.Resolve(req.Lesson, p)
		out = append(out, routeResponse{Phase: p, Decision: d, Path: navigation.PathFor(d, p)})
	}
	if req.Phase != nil {
		writeJSON(w, http.StatusOK, out[0])
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExportLesson(w http.ResponseWriter, r *http.Request) {
	var req lessonBody
	if !decodeLesson(w, r, &req, &req.Lesson) {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteLessonPlan(&buf, req.Lesson, h.resolver.Plan(req.Lesson)); err != nil {
		slog.Error("lesson export failed", "lesson_id", req.Lesson.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lesson-%s.xlsx"`, exportName(req.Lesson)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("lesson export write failed", "lesson_id", req.Lesson.ID, "error", err)
	}
}

// exportName keeps the lesson id safe for a Content-Disposition filename.
func exportName(l lesson.Lesson) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, l.ID)
	if name == "" {
		return "plan"
	}
	return name
}

type handoffResponse struct {
	Path    string             `json:"path"`
	Payload navigation.Payload `json:"payload"`
}

func (h *Handler) handleTakeHandoff(w http.ResponseWriter, r *http.Request) {
	path, payload, err := h.nav.Take(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, navigation.ErrHandoffNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, handoffResponse{Path: path, Payload: payload})
}
