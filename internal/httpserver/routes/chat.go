package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/httpserver/handlers"
	"github.com/opencampus/portal/internal/httpserver/mw"
)

func init() { Register(registerChat) }

func registerChat(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Limit:      5,
		Window:     time.Minute,
		TrustProxy: d.TrustProxy,
	})
	r.With(limit).Post("/api/chat", handlers.Chat(d))
}
