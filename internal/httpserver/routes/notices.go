package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/httpserver/handlers"
	"github.com/opencampus/portal/internal/httpserver/mw"
)

func init() { Register(registerNotices) }

func registerNotices(r chi.Router, d deps.Deps) {
	read := mw.RateLimit(mw.RateLimitConfig{
		Limit:      20,
		Window:     time.Minute,
		TrustProxy: d.TrustProxy,
	})
	r.With(read).Get("/api/notices", handlers.ListNotices(d))
}
