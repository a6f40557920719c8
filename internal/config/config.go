// Package config reads the server configuration from environment variables.
//
// Every setting has a default, so `go run ./cmd/server` works with nothing
// set. A variable that is set but invalid is an error: a typo in PORT should
// stop the server, not silently fall back to 8080.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends for entries and summaries.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the complete server configuration.
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	// Store selects where entries (and foods, unless Redis is set) live.
	Store  string
	DBPath string

	// RedisAddr, when set, moves the food catalog to Redis so several server
	// processes share one cache of FoodData Central lookups.
	RedisAddr      string
	RedisKeyPrefix string

	FDCAPIKey  string
	FDCBaseURL string
	FDCTimeout time.Duration

	DefaultOwner string
	CORSOrigins  []string
}

// Load reads the environment. All problems are reported together.
func Load() (Config, error) {
	var errs []error

	cfg := Config{
		LogLevel:       str("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(str("LOG_FORMAT", "text")),
		Store:          strings.ToLower(str("STORE", StoreMemory)),
		DBPath:         str("DB_PATH", "data/nutrition.db"),
		RedisAddr:      str("REDIS_ADDR", ""),
		RedisKeyPrefix: str("REDIS_KEY_PREFIX", "nutrition"),
		FDCAPIKey:      str("FDC_API_KEY", "DEMO_KEY"),
		FDCBaseURL:     str("FDC_BASE_URL", "https://api.nal.usda.gov/fdc/v1"),
		DefaultOwner:   str("DEFAULT_OWNER", "default"),
		CORSOrigins:    list("CORS_ORIGINS", []string{"*"}),
	}

	port, err := integer("PORT", 8080)
	if err != nil {
		errs = append(errs, err)
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", port))
	}
	cfg.Port = port

	timeout, err := duration("FDC_TIMEOUT", 10*time.Second)
	if err != nil {
		errs = append(errs, err)
	} else if timeout <= 0 {
		errs = append(errs, fmt.Errorf("FDC_TIMEOUT must be positive"))
	}
	cfg.FDCTimeout = timeout

	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be text or json", cfg.LogFormat))
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE %q must be %s or %s", cfg.Store, StoreMemory, StoreSQLite))
	}

	if cfg.DefaultOwner == "" {
		errs = append(errs, fmt.Errorf("DEFAULT_OWNER must not be empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func str(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func integer(name string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s %q is not an integer", name, v)
	}
	return n, nil
}

func duration(name string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s %q is not a duration (e.g. 10s)", name, v)
	}
	return d, nil
}

// list splits a comma-separated variable, dropping empty items.
func list(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
