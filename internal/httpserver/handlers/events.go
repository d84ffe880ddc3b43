package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/httpserver/deps"
)

type eventListResponse struct {
	Events []domain.Event `json:"events"`
}

// ListEvents returns visible upcoming events, soonest first.
func ListEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := d.Events.Upcoming(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, eventListResponse{Events: events})
	}
}

// GetEvent returns a single event by id. Hidden events are indistinguishable
// from missing ones.
func GetEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := d.Events.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if !event.Visible {
			writeError(w, d.Logger, apperr.NotFound("event not found"))
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}
