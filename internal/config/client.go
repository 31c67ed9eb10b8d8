package config

import "time"

// ClientConfig configures the authenticated API client.
type ClientConfig struct {
	// BaseURL is prefixed verbatim to every relative request path.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`

	// Timeout bounds every request; an expired request surfaces as a
	// network failure.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"30s"`

	// SessionPath is the file holding the persisted credential triple.
	SessionPath string `env:"API_SESSION_PATH" envDefault:".ebikepoint/session.json"`
}
