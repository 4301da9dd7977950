// Copyright (c) 2025-2026 Avamark Digital
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PORTAL_DB_PATH" envDefault:"./data/portal.db"`
	ServerHost string `env:"PORTAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PORTAL_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PORTAL_ENV" envDefault:"development"`
	LogLevel   string `env:"PORTAL_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"PORTAL_UPLOADS_DIR" envDefault:"./uploads"`
	BaseURL    string `env:"PORTAL_BASE_URL" envDefault:"http://localhost:8080"`

	// AI plan generation
	OpenAIKey   string `env:"PORTAL_OPENAI_API_KEY"`
	OpenAIModel string `env:"PORTAL_OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// Transactional email (optional; logged when unconfigured)
	SMTPHost string `env:"PORTAL_SMTP_HOST"`
	SMTPPort int    `env:"PORTAL_SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"PORTAL_SMTP_USER"`
	SMTPPass string `env:"PORTAL_SMTP_PASS"`
	MailFrom string `env:"PORTAL_MAIL_FROM" envDefault:"portal@avamark.example"`

	// Cache configuration
	RedisURL     string `env:"PORTAL_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix  string `env:"PORTAL_CACHE_PREFIX" envDefault:"portal:"`
	CacheTTL     int    `env:"PORTAL_CACHE_TTL" envDefault:"3600"`     // Default cache TTL in seconds
	CacheMaxSize int    `env:"PORTAL_CACHE_MAX_SIZE" envDefault:"10000"`

	// GeoIP configuration
	GeoIPDBPath string `env:"PORTAL_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Seeding configuration
	DoSeed bool `env:"PORTAL_DO_SEED" envDefault:"true"`

	// SessionSecret authenticates CSRF tokens. Must be at least 32 bytes
	// outside development.
	SessionSecret string `env:"PORTAL_SESSION_SECRET"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AIEnabled returns true if plan generation is configured.
func (c Config) AIEnabled() bool {
	return c.OpenAIKey != ""
}

// SMTPEnabled returns true if outbound mail is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// GeoIPEnabled returns true if the GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("PORTAL_SERVER_PORT out of range: %d", cfg.ServerPort)
	}

	if cfg.SessionSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("PORTAL_SESSION_SECRET is required outside development")
		}
		cfg.SessionSecret = "insecure-development-session-secret!!"
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("PORTAL_SESSION_SECRET must be at least 32 bytes")
	}

	return cfg, nil
}
