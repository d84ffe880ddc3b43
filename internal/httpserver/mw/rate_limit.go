package mw

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/opencampus/portal/internal/utils"
)

// RateLimitConfig describes one fixed-window class. Every caller identity
// gets Limit requests per Window; the counter resets when the window rolls
// over, there is no carry-over or token refill.
type RateLimitConfig struct {
	Limit         int
	Window        time.Duration
	MaxEntries    int
	SweepInterval time.Duration
	IdleTTL       time.Duration
	TrustProxy    bool // resolve IP from proxy headers when true
}

type window struct {
	mu       sync.Mutex
	start    time.Time
	count    int
	lastSeen time.Time
}

type limiter struct {
	cfg       RateLimitConfig
	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.Limit < 1 {
		cfg.Limit = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	return &limiter{
		cfg:       cfg,
		windows:   make(map[string]*window, 1024),
		lastSweep: time.Now(),
	}
}

func (l *limiter) getWindow(key string, now time.Time) *window {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cfg.MaxEntries > 0 && len(l.windows) >= l.cfg.MaxEntries {
		l.sweepLocked(now)
	}
	w := l.windows[key]
	if w == nil {
		w = &window{start: now, lastSeen: now}
		l.windows[key] = w
	}
	return w
}

// allow counts one request against key's current window. Reset is lazy: the
// first request after the window elapses starts a fresh one.
func (l *limiter) allow(key string, now time.Time) (ok bool, remaining int, retryAfterSec int) {
	w := l.getWindow(key, now)

	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.start) >= l.cfg.Window {
		w.start = now
		w.count = 0
	}
	w.lastSeen = now

	if w.count < l.cfg.Limit {
		w.count++
		return true, l.cfg.Limit - w.count, 0
	}

	sec := int((l.cfg.Window - now.Sub(w.start)) / time.Second)
	if sec < 1 {
		sec = 1
	}
	return false, 0, sec
}

func (l *limiter) sweepLocked(now time.Time) {
	ttl := l.cfg.IdleTTL
	for key, w := range l.windows {
		if now.Sub(w.lastSeen) > ttl {
			delete(l.windows, key)
		}
	}
	l.lastSweep = now
}

func (l *limiter) sweepMaybe(now time.Time) {
	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.sweepLocked(now)
	}
	l.mu.Unlock()
}

// RateLimit enforces cfg per client IP. Rejections are JSON with code
// rate_limited and carry a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limitStr := strconv.Itoa(l.cfg.Limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			l.sweepMaybe(now)

			key := utils.ClientIP(r, l.cfg.TrustProxy)

			ok, remaining, retry := l.allow(key, now)
			w.Header().Set("X-RateLimit-Limit", limitStr)
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests, slow down"}}`))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		})
	}
}
