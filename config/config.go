package config

import (
	"os"
	"strings"
	"time"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See the individual config files for
// available environment variables:
//   - config.go: API and profile configuration
//   - storage.go: credential storage configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, relaxed
	// storage defaults). Set DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	// API configuration
	API APIConfig `envPrefix:"API_"`

	// Credential storage configuration
	Storage StorageConfig `envPrefix:"STORAGE_"`
	Redis   RedisConfig   `envPrefix:"REDIS_"`

	// Profile configuration
	Profile ProfileConfig `envPrefix:"PROFILE_"`
}

// APIConfig contains backend API configuration.
type APIConfig struct {
	// BaseURL is the API root every gateway call is issued against.
	BaseURL string `env:"BASE_URL" envDefault:"https://api.kinebilan.fr/api"`

	// Timeout bounds each HTTP request end to end.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// ProfileConfig controls how the opaque user snapshot is interpreted.
type ProfileConfig struct {
	// IDPath is the JMESPath locating the user identifier inside the
	// snapshot. The core inspects nothing else.
	IDPath string `env:"ID_PATH" envDefault:"id"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.API.Sanitize()
	c.Storage.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// Sanitize clamps nonsensical API values back to their defaults.
func (c *APIConfig) Sanitize() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.kinebilan.fr/api"
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
}
