// Package config loads application configuration from environment variables.
//
// Configuration is loaded with github.com/caarlos0/env after an optional
// .env file has been applied via github.com/joho/godotenv. See the
// domain-specific files for the available variables:
//   - http.go: HTTP server configuration
//   - auth.go: token and password configuration
//   - store.go: persistence configuration
//   - client.go: API client configuration
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig composes the configuration for both applications in this
// repository. The taskapi and storefront binaries each use the subset
// relevant to them.
type AppConfig struct {
	// AppName is used for the startup banner and the service-info endpoints.
	AppName string `env:"APP_NAME" envDefault:"E-Bike Point ERP"`

	// Env selects runtime behavior ("development" enables console logging
	// and request logging).
	Env string `env:"ENV" envDefault:"development"`

	HTTP   HTTPConfig
	Auth   AuthConfig
	Store  StoreConfig
	Client ClientConfig
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; a missing file is not an error.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from the environment.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
}

// IsDev reports whether the application runs in development mode.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}
