package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencampus/portal/internal/ai"
	"github.com/opencampus/portal/internal/auth"
	"github.com/opencampus/portal/internal/logger"
	"github.com/opencampus/portal/internal/notify"
	"github.com/opencampus/portal/internal/repo"
	"github.com/opencampus/portal/internal/search"
	"github.com/opencampus/portal/internal/session"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	TrustProxy bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	AdminCIDRS []string // IPs allowed to reach admin endpoints (empty = no filter)

	Events        *repo.Events
	Notices       *repo.Notices
	Registrations *repo.Registrations
	ChatLogs      *repo.ChatLogs

	Retriever    *search.Retriever
	Orchestrator *ai.Orchestrator
	Persona      string // prompt preamble from the assistant profile

	AdminSecret string // shared operator secret
	Issuer      *auth.Issuer
	Sessions    *session.Store
	SessionTTL  time.Duration

	Mailer      *notify.Mailer
	RedisClient *redis.Client // readiness probing
}
