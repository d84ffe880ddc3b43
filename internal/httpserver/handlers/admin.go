package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/logger"
)

type loginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminLogin exchanges the shared operator secret for a revocable session
// token. The secret itself keeps working as a bearer value; the token is
// what operators should actually hand to tooling.
func AdminLogin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d.Logger, apperr.Validation("invalid request body", nil))
			return
		}
		if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(d.AdminSecret)) != 1 {
			writeError(w, d.Logger, apperr.Unauthorized("invalid admin secret"))
			return
		}

		email := strings.TrimSpace(req.Email)
		if email == "" {
			email = "admin"
		}
		token, err := d.Issuer.Issue(email, "admin", d.SessionTTL)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Sessions.Create(r.Context(), token, email); err != nil {
			writeError(w, d.Logger, err)
			return
		}

		d.Logger.Info("admin session opened", logger.String("email", email))
		writeJSON(w, http.StatusOK, loginResponse{
			Token:     token,
			ExpiresAt: d.TimeNow().Add(d.SessionTTL).UTC(),
		})
	}
}

// AdminLogout revokes the presented session token. Revoking the shared
// secret is meaningless, so that case is a no-op success.
func AdminLogout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != "" && token != d.AdminSecret {
			if err := d.Sessions.Revoke(r.Context(), token); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// CreateEvent publishes a new event. ID, creation time and visibility are
// assigned server-side.
func CreateEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event domain.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			writeError(w, d.Logger, apperr.Validation("invalid request body", nil))
			return
		}

		fields := map[string]string{}
		if strings.TrimSpace(event.Title) == "" {
			fields["title"] = "required"
		}
		if event.Date.IsZero() {
			fields["date"] = "required"
		}
		if len(fields) > 0 {
			writeError(w, d.Logger, apperr.Validation("invalid event", fields))
			return
		}

		created, err := d.Events.Create(r.Context(), event)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// CreateNotice publishes a new notice.
func CreateNotice(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var notice domain.Notice
		if err := json.NewDecoder(r.Body).Decode(&notice); err != nil {
			writeError(w, d.Logger, apperr.Validation("invalid request body", nil))
			return
		}
		if strings.TrimSpace(notice.Title) == "" {
			writeError(w, d.Logger, apperr.Validation("invalid notice", map[string]string{"title": "required"}))
			return
		}

		created, err := d.Notices.Create(r.Context(), notice)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// HideEvent flips an event invisible. The history keeps every prior row.
func HideEvent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Events.Hide(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// HideNotice flips a notice invisible.
func HideNotice(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Notices.Hide(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

type registrationListResponse struct {
	Registrations []domain.Registration `json:"registrations"`
}

// ListRegistrations returns registrations, optionally scoped to one event
// via ?event_id=.
func ListRegistrations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			regs []domain.Registration
			err  error
		)
		if eventID := r.URL.Query().Get("event_id"); eventID != "" {
			regs, err = d.Registrations.ByEvent(r.Context(), eventID)
		} else {
			regs, err = d.Registrations.All(r.Context())
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, registrationListResponse{Registrations: regs})
	}
}

const defaultChatLogLimit = 50

type chatLogListResponse struct {
	Entries []domain.ChatLogEntry `json:"entries"`
}

// ListChatLogs returns the most recent chat exchanges, newest first.
// ?limit= caps the count, default 50.
func ListChatLogs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultChatLogLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, d.Logger, apperr.Validation("invalid limit", map[string]string{"limit": "must be a positive integer"}))
				return
			}
			limit = n
		}

		entries, err := d.ChatLogs.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, chatLogListResponse{Entries: entries})
	}
}
