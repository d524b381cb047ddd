package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Log format constants
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultEnvFiles are the dotenv files consulted by Load, in order.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config represents the WDS runtime configuration.
type Config struct {
	DBPath          string `env:"WDS_DB_PATH"`
	LogLevel        string `env:"WDS_LOG_LEVEL" envDefault:"info"`
	LogFormat       string `env:"WDS_LOG_FORMAT" envDefault:"text"`
	LogPath         string `env:"WDS_LOG_PATH"`
	MetricsTextfile string `env:"WDS_METRICS_TEXTFILE"`
	AuditLimit      int    `env:"WDS_AUDIT_LIMIT" envDefault:"200"`
	Actor           string `env:"WDS_ACTOR"`
}

// LoadEnv loads the dotenv files that exist and returns how many were read.
// Files that do not exist are skipped.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads dotenv files and the process environment into a validated Config.
func Load(envFiles []string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}
	return Parse(nil)
}

// Parse builds a Config from the given environment map. A nil map means the
// process environment.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}
	if cfg.Actor == "" {
		cfg.Actor = lookup(environ, "USER")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values that env parsing cannot.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error", "silent":
	default:
		return fmt.Errorf("invalid WDS_LOG_LEVEL=%q (expected debug|info|warn|error|silent)", c.LogLevel)
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid WDS_LOG_FORMAT=%q (expected text|json)", c.LogFormat)
	}

	if c.AuditLimit <= 0 {
		return fmt.Errorf("WDS_AUDIT_LIMIT must be positive, got %d", c.AuditLimit)
	}
	return nil
}

// DefaultDBPath returns ~/.wds/workforce.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".wds", "workforce.db"), nil
}

func lookup(environ map[string]string, key string) string {
	if environ != nil {
		return environ[key]
	}
	return os.Getenv(key)
}
