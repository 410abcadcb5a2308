package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// Env is "dev" (default) or "prod". When "prod", the session cookie defaults to Secure.
	Env string

	// SessionTTLHours is the session lifetime in hours (default 24). Set via SESSION_TTL_HOURS.
	SessionTTLHours int

	// SessionSweepCron is a cron expression for the expired-session janitor
	// (e.g. "@hourly"). Empty (the default) disables the sweep entirely;
	// expired sessions are then only rejected lazily at auth-check time.
	SessionSweepCron string

	// CookieName is the session cookie name (default "planner_session").
	CookieName string
	// CookieDomain scopes the session cookie; empty means host-only.
	CookieDomain string
	// CookieSecure marks the session cookie Secure. Defaults to true when Env is "prod".
	CookieSecure bool

	// MigrateOnStart applies pending migrations at API startup (default true).
	MigrateOnStart bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	// Allowed origins also get Access-Control-Allow-Credentials so the session cookie travels.
	CORSAllowedOrigins []string
}

func Load() Config {
	// Optional .env for local development; silently ignored when absent.
	_ = godotenv.Load()

	env := getEnv("ENV", "dev")

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "plannerdb"),
		DBUser: getEnv("DB_USER", "planner"),
		DBPass: getEnv("DB_PASS", "plannerpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		Env: env,

		SessionTTLHours:  getEnvInt("SESSION_TTL_HOURS", 24),
		SessionSweepCron: getEnv("SESSION_SWEEP_CRON", ""),

		CookieName:   getEnv("COOKIE_NAME", "planner_session"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnvBool("COOKIE_SECURE", env == "prod"),

		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// DatabaseURL returns a postgres DSN in URL form, as golang-migrate expects.
func (c Config) DatabaseURL() string {
	return "postgres://" + c.DBUser + ":" + c.DBPass + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
