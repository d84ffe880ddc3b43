package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/opencampus/portal/internal/auth"
	"github.com/opencampus/portal/internal/logger"
	"github.com/opencampus/portal/internal/session"
)

// RequireAdmin guards admin endpoints. Two bearer values are accepted: the
// shared operator secret, or a signed session token that still has a live
// session in redis. Everything else is a uniform 401.
func RequireAdmin(secret string, issuer *auth.Issuer, sessions *session.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				reject(w)
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			if _, err := issuer.Verify(token); err != nil {
				log.Debug("admin token rejected", logger.Error(err))
				reject(w)
				return
			}
			active, err := sessions.Active(r.Context(), token)
			if err != nil {
				log.Warn("session lookup failed", logger.Error(err))
				reject(w)
				return
			}
			if !active {
				reject(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func reject(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"admin authorization required"}}`))
}
