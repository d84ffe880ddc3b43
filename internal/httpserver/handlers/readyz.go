package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Redis string `json:"redis"`
}

// Readyz pings redis. Sessions and listing caches need it, so a dead redis
// means not ready.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := d.RedisClient.Ping(ctx).Err(); err != nil {
			d.Logger.Warn("readyz redis ping failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Redis: "down"})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Redis: "ok"})
	}
}
