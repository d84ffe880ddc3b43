package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/httpserver/handlers"
	"github.com/opencampus/portal/internal/httpserver/mw"
)

func init() { Register(registerEvents) }

func registerEvents(r chi.Router, d deps.Deps) {
	read := mw.RateLimit(mw.RateLimitConfig{
		Limit:      20,
		Window:     time.Minute,
		TrustProxy: d.TrustProxy,
	})
	register := mw.RateLimit(mw.RateLimitConfig{
		Limit:      10,
		Window:     time.Minute,
		TrustProxy: d.TrustProxy,
	})

	r.With(read).Get("/api/events", handlers.ListEvents(d))
	r.With(read).Get("/api/events/{id}", handlers.GetEvent(d))
	r.With(register).Post("/api/events/{id}/register", handlers.Register(d))
}
