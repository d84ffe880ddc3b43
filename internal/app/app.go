package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/opencampus/portal/internal/ai"
	"github.com/opencampus/portal/internal/auth"
	"github.com/opencampus/portal/internal/cache"
	"github.com/opencampus/portal/internal/config"
	"github.com/opencampus/portal/internal/gauth"
	"github.com/opencampus/portal/internal/httpserver"
	"github.com/opencampus/portal/internal/httpserver/deps"
	"github.com/opencampus/portal/internal/logger"
	"github.com/opencampus/portal/internal/notify"
	"github.com/opencampus/portal/internal/profile"
	"github.com/opencampus/portal/internal/redis"
	"github.com/opencampus/portal/internal/repo"
	"github.com/opencampus/portal/internal/search"
	"github.com/opencampus/portal/internal/session"
	"github.com/opencampus/portal/internal/sheets"
	"github.com/opencampus/portal/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	// Service account credentials for the spreadsheet store
	signer, err := gauth.NewSignerFromFile(
		cfg.ServiceAccountKey,
		cfg.ServiceAccountEmail,
		cfg.SheetsScope,
		cfg.TokenURL,
	)
	if err != nil {
		loggerClient.Errorf("Failed to load service account key: %v", err)
		os.Exit(1)
	}
	tokens := gauth.NewTokenSource(signer, cfg.TokenURL, cfg.TokenSafetyMargin, loggerClient)

	sheetClient := sheets.New(cfg.SheetsBaseURL, cfg.SpreadsheetID, tokens, cfg.SheetsTimeout, loggerClient)

	// Repositories over the spreadsheet store; listings cached in redis
	listings := cache.NewStore(redisClient)
	events := repo.NewEvents(sheetClient, listings, cfg.ListingCacheTTL, loggerClient)
	notices := repo.NewNotices(sheetClient, listings, cfg.ListingCacheTTL, loggerClient)
	registrations := repo.NewRegistrations(sheetClient, loggerClient)
	chatLogs := repo.NewChatLogs(sheetClient, loggerClient)

	// Assistant profile (persona + provider order)
	prof, err := profile.NewLoader(cfg.ProfileFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load assistant profile: %v", err)
		os.Exit(1)
	}

	retriever := search.NewRetriever(
		cfg.SearchBaseURL,
		cfg.SearchAPIKey,
		cfg.SearchEngineID,
		cfg.CampusDomain,
		cfg.SearchTimeout,
		loggerClient,
	)
	if retriever.Enabled() {
		loggerClient.Info("context search enabled",
			logger.String("domain", cfg.CampusDomain))
	} else {
		loggerClient.Info("context search not configured, chat runs without retrieval")
	}

	orchestrator := ai.NewOrchestrator(buildProviders(cfg, prof.Providers, loggerClient), loggerClient)

	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}, loggerClient)
	if !mailer.Enabled() {
		loggerClient.Info("smtp not configured, confirmation emails disabled")
	}

	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		TrustProxy:    cfg.TrustProxy,
		AdminCIDRS:    cfg.AdminCIDRS,
		Events:        events,
		Notices:       notices,
		Registrations: registrations,
		ChatLogs:      chatLogs,
		Retriever:     retriever,
		Orchestrator:  orchestrator,
		Persona:       prof.Persona,
		AdminSecret:   cfg.AdminSecret,
		Issuer:        auth.NewIssuer(cfg.SessionSecret),
		Sessions:      session.New(redisClient, cfg.SessionTTL),
		SessionTTL:    cfg.SessionTTL,
		Mailer:        mailer,
		RedisClient:   redisClient,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
	}
}

// buildProviders maps the profile's priority order onto configured
// adapters. Unknown names are skipped with a warning so a typo in the
// profile degrades instead of crashing.
func buildProviders(cfg *config.Config, order []string, log logger.Logger) []ai.Provider {
	providers := make([]ai.Provider, 0, len(order))
	for _, name := range order {
		switch name {
		case "gemini":
			providers = append(providers, ai.NewGemini(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProviderTimeout))
		case "groq":
			providers = append(providers, ai.NewGroq(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel, cfg.ProviderTimeout))
		case "openrouter":
			providers = append(providers, ai.NewOpenRouter(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.ProviderTimeout))
		default:
			log.Warnf("unknown provider %q in profile, skipping", name)
		}
	}
	return providers
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Portal v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Portal %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Portal stopped cleanly")
	return nil
}
