package api

import (
	"net/http"

	"github.com/p-n-ai/pai-planner/internal/settings"
)

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.settings.Profile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p settings.Profile
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SaveProfile(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleGetTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.settings.Terms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

func (h *Handler) handlePutTerms(w http.ResponseWriter, r *http.Request) {
	var terms []settings.Term
	if err := decodeJSON(r, &terms); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := settings.ValidateTerms(terms); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.SaveTerms(r.Context(), terms); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	saved, err := h.settings.Terms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

type weekResponse struct {
	Date  settings.Date  `json:"date"`
	Term  *settings.Term `json:"term"`
	Week  int            `json:"week"`
	Weeks int            `json:"weeks,omitempty"`
}

// handleCurrentWeek reports the term week for ?date=YYYY-MM-DD, or today.
func (h *Handler) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	day := settings.DateOf(h.now())
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := settings.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		day = parsed
	}

	term, week, ok, err := h.settings.CurrentWeek(r.Context(), day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := weekResponse{Date: day}
	if ok {
		resp.Term = &term
		resp.Week = week
		resp.Weeks = term.Weeks()
	}
	writeJSON(w, http.StatusOK, resp)
}
