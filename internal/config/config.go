package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	// DailyGoal is the calorie target totals are measured against
	DailyGoal int `json:"daily_goal" yaml:"daily_goal" env:"WINTERARC_DAILY_GOAL"`

	// Backend selects where the food log is persisted: sqlite, redis, postgres or memory.
	// The memory backend does not survive process exit.
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty" env:"WINTERARC_BACKEND"`

	// StoreKey is the record key the log is stored under
	StoreKey string `json:"store_key,omitempty" yaml:"store_key,omitempty" env:"WINTERARC_STORE_KEY"`

	// RedisURL is used when Backend is "redis", e.g. redis://localhost:6379/0
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" env:"WINTERARC_REDIS_URL"`

	// PostgresDSN is used when Backend is "postgres"
	PostgresDSN string `json:"postgres_dsn,omitempty" yaml:"postgres_dsn,omitempty" env:"WINTERARC_POSTGRES_DSN"`

	// DBMaxOpenConns limits open SQLite connections. 0 means sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" yaml:"db_max_open_conns,omitempty" env:"WINTERARC_DB_MAX_OPEN_CONNS"`

	// DBMaxIdleConns limits idle SQLite connections. 0 means sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" yaml:"db_max_idle_conns,omitempty" env:"WINTERARC_DB_MAX_IDLE_CONNS"`

	// AllowedPaths is an allowlist of directories for export.
	// Paths outside ~/.winterarc/exports must be listed here unless AllowUnsafePaths is set.
	// Relative paths are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty" yaml:"allowed_paths,omitempty" env:"WINTERARC_ALLOWED_PATHS"`

	// AllowUnsafePaths disables directory restrictions for export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty" yaml:"allow_unsafe_paths,omitempty" env:"WINTERARC_ALLOW_UNSAFE_PATHS"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" yaml:"disabled_tools,omitempty" env:"WINTERARC_DISABLED_TOOLS"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" env:"WINTERARC_LOG_LEVEL"`

	WebBind string `json:"web_bind,omitempty" yaml:"web_bind,omitempty" env:"WINTERARC_WEB_BIND"`
	WebPort int    `json:"web_port,omitempty" yaml:"web_port,omitempty" env:"WINTERARC_WEB_PORT"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DailyGoal: 2200,
		Backend:   BackendSQLite,
		StoreKey:  "foodLog",
		LogLevel:  "info",
		WebBind:   "127.0.0.1",
		WebPort:   8420,
	}
}

// Load loads configuration from baseDir/config.json, or baseDir/config.yaml
// when no JSON file exists, then applies WINTERARC_* environment overrides.
// Returns default config if neither file exists.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.winterarc.
func Load(baseDir string) (*Config, error) {
	file, err := loadFileRaw(baseDir)
	if err != nil {
		return nil, err
	}

	env, err := loadEnv()
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(DefaultConfig(), file), env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFileRaw reads the config file from baseDir.
// Returns zero-valued config if no file exists (not defaults).
func loadFileRaw(baseDir string) (*Config, error) {
	jsonPath := filepath.Join(baseDir, "config.json")
	data, err := os.ReadFile(jsonPath)
	if err == nil {
		cfg := &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", jsonPath, err)
		}
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	for _, name := range []string{"config.yaml", "config.yml"} {
		yamlPath := filepath.Join(baseDir, name)
		data, err := os.ReadFile(yamlPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg := &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", yamlPath, err)
		}
		return cfg, nil
	}

	return &Config{}, nil
}

// loadEnv reads WINTERARC_* overrides. Unset variables stay zero.
func loadEnv() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the merged configuration is usable.
func (c *Config) Validate() error {
	if c.DailyGoal <= 0 {
		return fmt.Errorf("daily_goal must be positive, got %d", c.DailyGoal)
	}
	switch c.Backend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("redis_url is required for the redis backend")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, redis, postgres or memory)", c.Backend)
	}
	if strings.TrimSpace(c.StoreKey) == "" {
		return fmt.Errorf("store_key must not be empty")
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return fmt.Errorf("web_port out of range: %d", c.WebPort)
	}
	return nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.DailyGoal = firstNonZero(overlay.DailyGoal, base.DailyGoal)
	result.DBMaxOpenConns = firstNonZero(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = firstNonZero(overlay.DBMaxIdleConns, base.DBMaxIdleConns)
	result.WebPort = firstNonZero(overlay.WebPort, base.WebPort)

	result.Backend = firstNonEmpty(overlay.Backend, base.Backend)
	result.StoreKey = firstNonEmpty(overlay.StoreKey, base.StoreKey)
	result.RedisURL = firstNonEmpty(overlay.RedisURL, base.RedisURL)
	result.PostgresDSN = firstNonEmpty(overlay.PostgresDSN, base.PostgresDSN)
	result.LogLevel = firstNonEmpty(overlay.LogLevel, base.LogLevel)
	result.WebBind = firstNonEmpty(overlay.WebBind, base.WebBind)

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func firstNonEmpty(a, b string) string {
	if s := strings.TrimSpace(a); s != "" {
		return s
	}
	return strings.TrimSpace(b)
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
