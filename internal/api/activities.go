package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/matcher"
	"github.com/p-n-ai/pai-planner/internal/route"
	"github.com/p-n-ai/pai-planner/internal/theme"
)

type activitiesResponse struct {
	Criteria lesson.FilterCriteria `json:"criteria"`
	Total    int                   `json:"total"`
	matcher.Result
}

func criteriaFromQuery(r *http.Request) (lesson.FilterCriteria, error) {
	q := r.URL.Query()
	c := lesson.FilterCriteria{
		Subject:    q.Get("subject"),
		YearGroup:  q.Get("yearGroup"),
		ClassID:    q.Get("classId"),
		Theme:      q.Get("theme"),
		SearchText: q.Get("search"),
	}
	if w := strings.TrimSpace(q.Get("week")); w != "" {
		week, err := strconv.Atoi(w)
		if err != nil || week < 0 {
			return lesson.FilterCriteria{}, errBadWeek(w)
		}
		c.Week = week
	}
	return c, nil
}

func (h *Handler) handleListActivities(w http.ResponseWriter, r *http.Request) {
	c, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := matcher.Match(h.catalog.All(), c)
	writeJSON(w, http.StatusOK, activitiesResponse{
		Criteria: c,
		Total:    result.Len(),
		Result:   result,
	})
}

func (h *Handler) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	act, ok := h.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "activity not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, act)
}

type themeResponse struct {
	Name  string        `json:"name,omitempty"`
	Key   theme.Key     `json:"key"`
	Known bool          `json:"known"`
	Style theme.Profile `json:"style"`
}

// handleThemes resolves ?name= to its canonical theme, or lists every theme.
func (h *Handler) handleThemes(w http.ResponseWriter, r *http.Request) {
	if name, ok := r.URL.Query()["name"]; ok {
		raw := name[0]
		writeJSON(w, http.StatusOK, themeResponse{
			Name:  raw,
			Key:   theme.Canonicalize(raw),
			Known: theme.Known(raw),
			Style: theme.Resolve(raw),
		})
		return
	}

	keys := theme.Keys()
	out := make([]themeResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, themeResponse{Key: k, Known: k != theme.Default, Style: theme.Style(k)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUnits(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, route.Units())
}
