package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/httpserver/handlers"
	"github.com/opencampus/portal/internal/httpserver/mw"
)

func init() { Register(registerAdmin) }

func registerAdmin(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Limit:      30,
		Window:     time.Minute,
		TrustProxy: d.TrustProxy,
	})
	cidrs := mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger)
	guard := mw.RequireAdmin(d.AdminSecret, d.Issuer, d.Sessions, d.Logger)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(cidrs, limit)

		// Login is CIDR-filtered and rate limited but obviously not token-guarded.
		r.Post("/login", handlers.AdminLogin(d))

		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/logout", handlers.AdminLogout(d))
			r.Post("/events", handlers.CreateEvent(d))
			r.Post("/events/{id}/hide", handlers.HideEvent(d))
			r.Post("/notices", handlers.CreateNotice(d))
			r.Post("/notices/{id}/hide", handlers.HideNotice(d))
			r.Get("/registrations", handlers.ListRegistrations(d))
			r.Get("/chatlogs", handlers.ListChatLogs(d))
		})
	})
}
