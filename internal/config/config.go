// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds credential-signing configuration. Member and client
// portal credentials use independent secrets; the two spaces must never be
// interchangeable.
type AuthConfig struct {
	MemberSecret string        // HS256 secret for member credentials
	ClientSecret string        // HS256 secret for client-portal credentials
	TokenTTL     time.Duration // credential lifetime (default: 24h)
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	if a.MemberSecret == "" {
		return fmt.Errorf("AUTH_MEMBER_SECRET must be set")
	}
	if a.ClientSecret == "" {
		return fmt.Errorf("AUTH_CLIENT_SECRET must be set")
	}
	if a.MemberSecret == a.ClientSecret {
		return fmt.Errorf("AUTH_MEMBER_SECRET and AUTH_CLIENT_SECRET must differ")
	}
	return nil
}

// Config holds the configuration for the HTTP API and SQLite store.
type Config struct {
	DBPath     string // path to the SQLite database file
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // debug, info, warn, error (default info)
	Env        string // development or production

	CORSAllowedOrigins []string

	RateLimitRPS   float64 // requests per second per client (0 disables)
	RateLimitBurst int

	Auth AuthConfig
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:     os.Getenv("DB_PATH"),
		ListenAddr: os.Getenv("LISTEN_ADDR"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		Env:        os.Getenv("ENV"),
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	cfg.Auth = AuthConfig{
		MemberSecret: os.Getenv("AUTH_MEMBER_SECRET"),
		ClientSecret: os.Getenv("AUTH_CLIENT_SECRET"),
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "taskflask.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = int(cfg.RateLimitRPS) * 2
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile reads KEY=VALUE pairs from a .env file into the process
// environment, skipping blank lines and # comments. Existing environment
// variables win over file entries.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return sc.Err()
}
