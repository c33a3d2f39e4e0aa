package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ESCALATION_THRESHOLD", "")
	t.Setenv("NOTIFY_RECIPIENTS", "")
	t.Setenv("PORT", "")

	cfg := Load()

	assert.Equal(t, 72*time.Hour, cfg.EscalationThreshold)
	assert.Equal(t, 5*time.Minute, cfg.EscalationInterval)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "admin@perundurai", cfg.Recipient(RoleAdmin))
	assert.Equal(t, "supreme@perundurai", cfg.Recipient(RoleSupreme))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ESCALATION_THRESHOLD", "48h")
	t.Setenv("ESCALATION_INTERVAL", "not-a-duration")
	t.Setenv("NOTIFY_RECIPIENTS", "supreme=chief@city.gov")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SEED_DEFAULTS", "false")

	cfg := Load()

	assert.Equal(t, 48*time.Hour, cfg.EscalationThreshold)
	assert.Equal(t, 5*time.Minute, cfg.EscalationInterval, "invalid durations fall back")
	assert.Equal(t, "chief@city.gov", cfg.Recipient(RoleSupreme))
	assert.Empty(t, cfg.Recipient(RoleAdmin))
	assert.Equal(t, 3, cfg.RedisDB)
	assert.False(t, cfg.SeedDefaults)
}

func TestParseRecipients(t *testing.T) {
	got := ParseRecipients(" admin = desk@city.gov ,broken, =nobody, supreme=top@city.gov,")
	require.Len(t, got, 2)
	assert.Equal(t, "desk@city.gov", got["admin"])
	assert.Equal(t, "top@city.gov", got["supreme"])
}

func TestRecipientNilConfig(t *testing.T) {
	var cfg *Config
	assert.Empty(t, cfg.Recipient(RoleAdmin))
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
