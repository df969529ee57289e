package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("STATS_INTERVAL", "")

	cfg := LoadConfig()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 30*time.Second, cfg.Stats.Interval)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAPBOX_TOKEN", "pk.test")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, 3, cfg.Session.RedisDB)
	assert.Equal(t, "pk.test", cfg.Map.MapboxToken)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestValidate_RejectsUnknownBackends(t *testing.T) {
	cfg := LoadConfig()

	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	cfg.Session.Backend = "memcached"
	assert.Error(t, cfg.Validate())
}

func TestParseDuration_Fallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
}
