package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/config"
	"github.com/warp/schedule-engine/generic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "default", cfg.Catalog.Source)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 12, cfg.Schedule.DefaultDuration)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileAndEnvLayers(t *testing.T) {
	// GIVEN: a config file and an env override on top of it
	path := writeConfig(t, `
server:
  port: 9000
catalog:
  source: legacy
cache:
  backend: none
  ttl: 5m
schedule:
  start_date: "2024-10-10"
`)
	t.Setenv("SCHEDULE_SERVER_PORT", "9100")
	t.Setenv("SCHEDULE_LOGGING_LEVEL", "debug")

	// WHEN: loading
	cfg, err := config.Load(path)
	require.NoError(t, err)

	// THEN: env beats file, file beats defaults
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "legacy", cfg.Catalog.Source)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.StartDate().Equal(generic.NewTimePoint(2024, time.October, 10)))
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad cache backend", "cache:\n  backend: memcached\n"},
		{"bad log level", "logging:\n  level: chatty\n"},
		{"duration out of range", "schedule:\n  default_duration: 30\n"},
		{"bad start date", "schedule:\n  start_date: \"10/10/2024\"\n"},
		{"redis without addr", "cache:\n  backend: redis\nredis:\n  addr: \"\"\n"},
		{"bad database driver", "database:\n  driver: postgres\n"},
		{"sqlite without path", "database:\n  driver: sqlite\n  path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MemoryDriverNeedsNoPath(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "database:\n  driver: memory\n  path: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStartDate_DefaultsToToday(t *testing.T) {
	cfg := config.GetDefaultConfig()
	assert.True(t, cfg.StartDate().Equal(generic.Today()))
}
