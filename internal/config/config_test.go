package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "STORE", "DB_PATH", "REDIS_ADDR",
		"REDIS_KEY_PREFIX", "FDC_API_KEY", "FDC_BASE_URL", "FDC_TIMEOUT",
		"DEFAULT_OWNER", "CORS_ORIGINS",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "data/nutrition.db", cfg.DBPath)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "nutrition", cfg.RedisKeyPrefix)
	assert.Equal(t, "DEMO_KEY", cfg.FDCAPIKey)
	assert.Equal(t, "https://api.nal.usda.gov/fdc/v1", cfg.FDCBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FDCTimeout)
	assert.Equal(t, "default", cfg.DefaultOwner)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("STORE", "sqlite")
	t.Setenv("FDC_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://app.example.com,,")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.FDCTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"port not a number", "PORT", "eighty", "PORT"},
		{"port out of range", "PORT", "70000", "out of range"},
		{"bad timeout", "FDC_TIMEOUT", "soon", "FDC_TIMEOUT"},
		{"negative timeout", "FDC_TIMEOUT", "-1s", "FDC_TIMEOUT"},
		{"bad format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"bad store", "STORE", "postgres", "STORE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ReportsAllErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "x")
	t.Setenv("STORE", "y")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "STORE")
}
