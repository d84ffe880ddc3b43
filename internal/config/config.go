package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	ProfileFile string // path to the assistant profile yaml (optional, empty = built-in defaults)

	// Spreadsheet store
	SpreadsheetID string        // target spreadsheet identifier (checked lazily, per call)
	SheetsBaseURL string        // base URL of the spreadsheet API
	SheetsTimeout time.Duration // per-call timeout for sheet reads/writes

	// Service account
	TokenURL            string        // token exchange endpoint
	ServiceAccountEmail string        // assertion issuer
	ServiceAccountKey   string        // path to the PEM-encoded RSA private key
	SheetsScope         string        // storage API scope claimed in the assertion
	TokenSafetyMargin   time.Duration // credential treated as expired this long before its real expiry

	// Context search
	SearchAPIKey   string // optional, empty = context retrieval disabled
	SearchEngineID string // optional
	SearchBaseURL  string
	CampusDomain   string        // site restriction appended to every search query
	SearchTimeout  time.Duration // per-call timeout for search queries

	// AI providers
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GroqAPIKey        string
	GroqModel         string
	GroqBaseURL       string
	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string
	ProviderTimeout   time.Duration // per-provider call timeout

	// Admin surface
	AdminSecret   string        // shared secret accepted as a bearer value
	SessionSecret string        // HMAC key for issued admin session tokens
	SessionTTL    time.Duration // admin session lifetime
	AdminCIDRS    []string      // optional, restrict admin endpoints to specific IPs/CIDRs

	ListingCacheTTL time.Duration // TTL for cached event/notice listings

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// SMTP (optional, empty host = notifications disabled)
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	TrustProxy bool // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("PORTAL_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("PORTAL_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("PORTAL_LOG_LEVEL", "info"),
		PrettyLog: mustBool("PORTAL_PRETTY_LOG", false),

		ProfileFile: getenv("PORTAL_PROFILE_FILE", ""),

		// Spreadsheet store. The ID is deliberately not required at boot:
		// the sheet client reports a configuration error on first use instead.
		SpreadsheetID: getenv("PORTAL_SPREADSHEET_ID", ""),
		SheetsBaseURL: getenv("PORTAL_SHEETS_BASE_URL", "https://sheets.googleapis.com/v4"),
		SheetsTimeout: mustDuration("PORTAL_SHEETS_TIMEOUT", 15*time.Second),

		// Service account
		TokenURL:            getenv("PORTAL_TOKEN_URL", "https://oauth2.googleapis.com/token"),
		ServiceAccountEmail: requireEnv("PORTAL_SERVICE_ACCOUNT_EMAIL"),
		ServiceAccountKey:   requireEnv("PORTAL_SERVICE_ACCOUNT_KEY_FILE"),
		SheetsScope:         getenv("PORTAL_SHEETS_SCOPE", "https://www.googleapis.com/auth/spreadsheets"),
		TokenSafetyMargin:   mustDuration("PORTAL_TOKEN_SAFETY_MARGIN", 60*time.Second),

		// Context search (optional enrichment, empty key disables it)
		SearchAPIKey:   getenv("PORTAL_SEARCH_API_KEY", ""),
		SearchEngineID: getenv("PORTAL_SEARCH_ENGINE_ID", ""),
		SearchBaseURL:  getenv("PORTAL_SEARCH_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
		CampusDomain:   getenv("PORTAL_CAMPUS_DOMAIN", ""),
		SearchTimeout:  mustDuration("PORTAL_SEARCH_TIMEOUT", 5*time.Second),

		// AI providers
		GeminiAPIKey:      getenv("PORTAL_GEMINI_API_KEY", ""),
		GeminiModel:       getenv("PORTAL_GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:     getenv("PORTAL_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GroqAPIKey:        getenv("PORTAL_GROQ_API_KEY", ""),
		GroqModel:         getenv("PORTAL_GROQ_MODEL", "llama-3.1-8b-instant"),
		GroqBaseURL:       getenv("PORTAL_GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		OpenRouterAPIKey:  getenv("PORTAL_OPENROUTER_API_KEY", ""),
		OpenRouterModel:   getenv("PORTAL_OPENROUTER_MODEL", "meta-llama/llama-3.1-8b-instruct:free"),
		OpenRouterBaseURL: getenv("PORTAL_OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		ProviderTimeout:   mustDuration("PORTAL_PROVIDER_TIMEOUT", 30*time.Second),

		// Admin surface
		AdminSecret:   requireEnv("PORTAL_ADMIN_SECRET"),
		SessionSecret: requireEnv("PORTAL_SESSION_SECRET"),
		SessionTTL:    mustDuration("PORTAL_SESSION_TTL", 12*time.Hour),
		AdminCIDRS:    parseAllowedIPs(getenv("PORTAL_ADMIN_CIDRS", "")),

		ListingCacheTTL: mustDuration("PORTAL_LISTING_CACHE_TTL", 5*time.Minute),

		// Redis settings
		RedisAddr:             requireEnv("PORTAL_REDIS_ADDR"),
		RedisUser:             getenv("PORTAL_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("PORTAL_REDIS_PASSWORD_REQUIRED", true),
		RedisPassword:         getenv("PORTAL_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("PORTAL_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// SMTP (empty by default, notifications disabled if not configured)
		SMTPHost:     getenv("PORTAL_SMTP_HOST", ""),
		SMTPPort:     getenv("PORTAL_SMTP_PORT", "587"),
		SMTPUsername: getenv("PORTAL_SMTP_USERNAME", ""),
		SMTPPassword: getenv("PORTAL_SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("PORTAL_SMTP_FROM", ""),
		SMTPFromName: getenv("PORTAL_SMTP_FROM_NAME", "Campus Portal"),

		TrustProxy: mustBool("PORTAL_TRUST_PROXY", true),
	}

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: PORTAL_REDIS_PASSWORD is required when PORTAL_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		cfgCopy.AdminSecret = "***REDACTED***"
		cfgCopy.SessionSecret = "***REDACTED***"
		cfgCopy.SearchAPIKey = "***REDACTED***"
		cfgCopy.GeminiAPIKey = "***REDACTED***"
		cfgCopy.GroqAPIKey = "***REDACTED***"
		cfgCopy.OpenRouterAPIKey = "***REDACTED***"
		cfgCopy.SMTPPassword = "***REDACTED***"
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
