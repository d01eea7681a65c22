package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "NORMS_SOURCE", "RULE_SET_VERSION", "AUTH_ENABLED", "METRICS_ENABLED", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8780", cfg.Port)
	assert.Equal(t, NormsStatic, cfg.NormsSource)
	assert.Equal(t, "default", cfg.RuleSetVersion)
	assert.False(t, cfg.AuthEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("NORMS_SOURCE", "DATABASE")
	t.Setenv("RULE_SET_VERSION", "nec-2023")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("BUNDEBUG", "not-a-bool")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, NormsDatabase, cfg.NormsSource)
	assert.Equal(t, "nec-2023", cfg.RuleSetVersion)
	assert.True(t, cfg.AuthEnabled)
	assert.False(t, cfg.BunDebug)
	assert.Len(t, cfg.AllowedOrigins, 2)
}

func TestLoadRejectsUnknownNormsSource(t *testing.T) {
	t.Setenv("NORMS_SOURCE", "redis")
	assert.Equal(t, NormsStatic, Load().NormsSource)
}
