package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/logger"
)

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Department     string `json:"department,omitempty"`
	Year           string `json:"year,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

type registerResponse struct {
	Registration domain.Registration `json:"registration"`
}

// Register signs a visitor up for an event. Registrations close one hour
// before the event starts; one email registers once per event.
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := chi.URLParam(r, "id")

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d.Logger, apperr.Validation("invalid request body", nil))
			return
		}

		reg := domain.Registration{
			EventID:        eventID,
			Name:           strings.TrimSpace(req.Name),
			Email:          strings.TrimSpace(req.Email),
			Phone:          strings.TrimSpace(req.Phone),
			Department:     strings.TrimSpace(req.Department),
			Year:           strings.TrimSpace(req.Year),
			AdditionalInfo: strings.TrimSpace(req.AdditionalInfo),
		}
		if fields := domain.ValidateRegistration(reg); len(fields) > 0 {
			writeError(w, d.Logger, apperr.Validation("invalid registration", fields))
			return
		}

		event, err := d.Events.Get(ctx, eventID)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if !event.Visible {
			writeError(w, d.Logger, apperr.NotFound("event not found"))
			return
		}
		if !event.OpenForRegistration(d.TimeNow()) {
			writeError(w, d.Logger, apperr.Validation("registration is closed for this event", nil))
			return
		}

		created, err := d.Registrations.Add(ctx, reg)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		// Confirmation email is fire and forget.
		go func(reg domain.Registration, event domain.Event) {
			if err := d.Mailer.SendRegistrationConfirmation(reg, event); err != nil {
				d.Logger.Warn("confirmation email failed", logger.Error(err))
			}
		}(created, event)

		writeJSON(w, http.StatusCreated, registerResponse{Registration: created})
	}
}
