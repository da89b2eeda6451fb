// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"STUDIO_DB_PATH" envDefault:"./data/studio.db"`
	AdminToken string `env:"STUDIO_ADMIN_TOKEN"`
	ServerHost string `env:"STUDIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"STUDIO_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"STUDIO_ENV" envDefault:"development"`
	LogLevel   string `env:"STUDIO_LOG_LEVEL" envDefault:"info"`

	// Uploads
	UploadsDir  string `env:"STUDIO_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB int64  `env:"STUDIO_MAX_UPLOAD_MB" envDefault:"8"` // Per-file upload cap

	// CORS origins allowed to call the API (the React front end)
	CORSOrigins []string `env:"STUDIO_CORS_ORIGINS" envSeparator:","`

	// Cache configuration
	RedisURL    string `env:"STUDIO_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix string `env:"STUDIO_CACHE_PREFIX" envDefault:"studio:"` // Redis key prefix
	CacheTTL    int    `env:"STUDIO_CACHE_TTL" envDefault:"300"`       // Published-list cache TTL in seconds

	// Contact notification mail
	SMTPHost     string `env:"STUDIO_SMTP_HOST"`
	SMTPPort     int    `env:"STUDIO_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"STUDIO_SMTP_USERNAME"`
	SMTPPassword string `env:"STUDIO_SMTP_PASSWORD"`
	NotifyFrom   string `env:"STUDIO_NOTIFY_FROM"`
	NotifyTo     string `env:"STUDIO_NOTIFY_TO"`
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

// MailEnabled returns true if contact notifications are configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.NotifyTo != "" && c.NotifyFrom != ""
}

// MaxUploadBytes returns the upload cap in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Without a token every mutating endpoint is unreachable. Valid for
	// read-only deployments, but worth a loud note.
	if cfg.AdminToken == "" {
		slog.Warn("STUDIO_ADMIN_TOKEN is not set; all admin operations are disabled")
	}

	return cfg, nil
}
