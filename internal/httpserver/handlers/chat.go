package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/opencampus/portal/internal/ai"
	"github.com/opencampus/portal/internal/apperr"
	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/logger"
)

type chatRequest struct {
	Question  string `json:"question"`
	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

type chatResponse struct {
	HTML        string    `json:"html"`
	ModelUsed   string    `json:"model_used"`
	Timestamp   time.Time `json:"timestamp"`
	SourceLinks []string  `json:"source_links,omitempty"`
}

// Chat answers a visitor question. Provider trouble never surfaces as an
// HTTP error: once the input is valid the response is always 200, at worst
// carrying the fixed fallback text.
func Chat(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d.Logger, apperr.Validation("invalid request body", nil))
			return
		}
		if msg := domain.ValidateQuestion(req.Question); msg != "" {
			writeError(w, d.Logger, apperr.Validation("invalid question", map[string]string{"question": msg}))
			return
		}
		question := strings.TrimSpace(req.Question)
		email := strings.TrimSpace(req.UserEmail)
		if email != "" && !domain.ValidEmail(email) {
			writeError(w, d.Logger, apperr.Validation("invalid email", map[string]string{"user_email": "must look like name@example.com"}))
			return
		}

		snippets := d.Retriever.Retrieve(ctx, question)
		links := make([]string, 0, len(snippets))
		for _, s := range snippets {
			links = append(links, s.Link)
		}

		answer := d.Orchestrator.Ask(ctx, ai.BuildPrompt(d.Persona, snippets, question))
		html := ai.FormatHTML(answer.Text, links)
		now := d.TimeNow().UTC()

		entry := domain.ChatLogEntry{
			Timestamp:       now,
			UserEmail:       email,
			UserName:        strings.TrimSpace(req.UserName),
			Question:        question,
			ModelUsed:       answer.Provider,
			Status:          domain.ChatStatusSuccess,
			RawResponse:     answer.Text,
			FinalAnswerHTML: html,
			SourceLinks:     links,
		}
		if answer.Fallback {
			entry.Status = domain.ChatStatusError
			entry.Error = "all providers exhausted"
		}
		// Best effort: a logging failure must not break the answer.
		if err := d.ChatLogs.Append(ctx, entry); err != nil {
			d.Logger.Warn("chat log append failed", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, chatResponse{
			HTML:        html,
			ModelUsed:   answer.Provider,
			Timestamp:   now,
			SourceLinks: links,
		})
	}
}
