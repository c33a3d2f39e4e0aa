package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RoleAdmin   = "admin"
	RoleSupreme = "supreme"

	defaultRecipients = "admin=admin@perundurai,supreme=supreme@perundurai"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (complaint cache + notification fan-out)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Escalation
	EscalationThreshold time.Duration
	EscalationInterval  time.Duration

	// Role -> notification recipient, e.g. "supreme" -> "supreme@perundurai"
	Recipients map[string]string

	// Retention
	LogRetentionDays          int
	NotificationRetentionDays int

	// Server
	Port         string
	CORSOrigins  string
	SeedDefaults bool

	// Observability
	SentryDSN string
	AppEnv    string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "water_complaint_system"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		CacheTTL:      parseDuration(getEnv("CACHE_TTL", "10m"), 10*time.Minute),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h"), 24*time.Hour),

		EscalationThreshold: parseDuration(getEnv("ESCALATION_THRESHOLD", "72h"), 72*time.Hour),
		EscalationInterval:  parseDuration(getEnv("ESCALATION_INTERVAL", "5m"), 5*time.Minute),

		Recipients: ParseRecipients(getEnv("NOTIFY_RECIPIENTS", defaultRecipients)),

		LogRetentionDays:          parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),
		NotificationRetentionDays: parseInt(getEnv("NOTIFICATION_RETENTION_DAYS", "90"), 90),

		Port:         getEnv("PORT", "5000"),
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		SeedDefaults: parseBool(getEnv("SEED_DEFAULTS", "true")),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Recipient returns the notification recipient configured for a role, or ""
// when the role has no mapping.
func (c *Config) Recipient(role string) string {
	if c == nil || c.Recipients == nil {
		return ""
	}
	return c.Recipients[role]
}

// ParseRecipients parses a "role=recipient,role=recipient" list. Malformed
// entries are skipped.
func ParseRecipients(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		role, recipient, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		role = strings.TrimSpace(role)
		recipient = strings.TrimSpace(recipient)
		if role == "" || recipient == "" {
			continue
		}
		out[role] = recipient
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
