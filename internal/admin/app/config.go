package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/haulmatch/taxadmin/pkg/httpx"
	"github.com/haulmatch/taxadmin/pkg/jwtx"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	SessionSecret string        // Required: HMAC secret for session tokens, at least 32 bytes
	SessionTTL    time.Duration // Optional: session lifetime (default: 24h)
	Issuer        string        // Optional: iss claim of session tokens (default: taxadmin)
	BaseURL       string        // Optional: public URL; https enables Secure cookies

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: SQLite database file (default: ./taxadmin.db)
	DatabaseURL    string // Required for postgres: connection string
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)

	// Optional: per-route buckets, read from RATELIMIT_{STRICT,PUBLIC,MODERATE,LENIENT}_{REQUESTS,WINDOW_SEC,BURST}
	// for login, queries, mutations and health probes (default: httpx.DefaultRateLimits)
	RateLimits httpx.RateLimits
}

func LoadConfig() Config {
	return Config{
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),
		Issuer:        getEnvOrDefault("SESSION_ISSUER", "taxadmin"),
		BaseURL:       getEnvOrDefault("BASE_URL", "http://localhost:8080"),

		DatabaseDriver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverSQLite)),
		DatabaseFile:   getEnvOrDefault("DATABASE_FILE", "taxadmin.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		PepperFile:     getEnvOrDefault("PEPPER_FILE", "pepper"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		RateLimits: loadRateLimits(),
	}
}

func loadRateLimits() httpx.RateLimits {
	d := httpx.DefaultRateLimits()
	return httpx.RateLimits{
		Login:    getEnvRateLimitOrDefault("STRICT", d.Login),
		Query:    getEnvRateLimitOrDefault("PUBLIC", d.Query),
		Mutation: getEnvRateLimitOrDefault("MODERATE", d.Mutation),
		Health:   getEnvRateLimitOrDefault("LENIENT", d.Health),
	}
}

// EffectiveRateLimits fills buckets left unset with the defaults.
func (c Config) EffectiveRateLimits() httpx.RateLimits {
	d := httpx.DefaultRateLimits()
	pick := func(set, def httpx.RateLimitConfig) httpx.RateLimitConfig {
		if set.Valid() {
			return set
		}
		return def
	}
	return httpx.RateLimits{
		Login:    pick(c.RateLimits.Login, d.Login),
		Query:    pick(c.RateLimits.Query, d.Query),
		Mutation: pick(c.RateLimits.Mutation, d.Mutation),
		Health:   pick(c.RateLimits.Health, d.Health),
	}
}

var (
	ErrMissingSecret = errors.New("SESSION_SECRET is required")
	ErrWeakSecret    = fmt.Errorf("SESSION_SECRET must be at least %d bytes", jwtx.MinSecretLength)
)

// Validate reports configuration the service must not start with.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.SessionSecret == "":
		errs = append(errs, ErrMissingSecret)
	case len(c.SessionSecret) < jwtx.MinSecretLength:
		errs = append(errs, ErrWeakSecret)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}

	if c.BaseURL != "" {
		if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("BASE_URL %q is not an absolute URL", c.BaseURL))
		}
	}

	return errors.Join(errs...)
}

// SecureCookies reports whether the session cookie must carry the Secure flag.
func (c Config) SecureCookies() bool {
	u, err := url.Parse(c.BaseURL)
	return err == nil && u.Scheme == "https"
}

func (c Config) IsDev() bool { return c.Env == "dev" }

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

// getEnvRateLimitOrDefault overrides each field of def that is set to a
// positive integer.
func getEnvRateLimitOrDefault(name string, def httpx.RateLimitConfig) httpx.RateLimitConfig {
	prefix := "RATELIMIT_" + name + "_"
	cfg := def
	if n := getEnvIntOrDefault(prefix+"REQUESTS", 0); n > 0 {
		cfg.RequestsPerWindow = n
	}
	if n := getEnvIntOrDefault(prefix+"WINDOW_SEC", 0); n > 0 {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n := getEnvIntOrDefault(prefix+"BURST", 0); n > 0 {
		cfg.Burst = n
	}
	return cfg
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
