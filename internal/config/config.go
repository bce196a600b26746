// Copyright (c) 2025-2026 Powiatowy Inspektorat Weterynarii w Piszu
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session
// secret. The CSRF layer derives its auth key from it.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"BIP_DB_PATH" envDefault:"./data/bip.db"`
	SessionSecret string `env:"BIP_SESSION_SECRET,required"`
	ServerHost    string `env:"BIP_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"BIP_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"BIP_ENV" envDefault:"development"`
	LogLevel      string `env:"BIP_LOG_LEVEL" envDefault:"info"`

	// AppURL is the public base URL, used for absolute links in the sitemap.
	AppURL string `env:"BIP_APP_URL" envDefault:"http://localhost:8080"`

	// CacheTTL is the menu/settings cache lifetime in seconds.
	CacheTTL int `env:"BIP_CACHE_TTL" envDefault:"300"`

	// PreviewFallback controls whether a menu item with no published article
	// falls back to rendering a draft. Mirrors the legacy site's behavior;
	// disable to hide drafts from anonymous visitors.
	PreviewFallback bool `env:"BIP_PREVIEW_FALLBACK" envDefault:"true"`

	// DoSeed enables database seeding on startup.
	DoSeed bool `env:"BIP_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("BIP_SESSION_SECRET must be at least %d bytes long, got %d; "+
			"generate one with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("BIP_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	return cfg, nil
}
