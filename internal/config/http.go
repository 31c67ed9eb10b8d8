package config

import (
	"fmt"
	"strings"
	"time"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address the HTTP server binds to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// AllowedOrigins is a comma-separated list of CORS origins. "*" allows
	// any origin (without credentials).
	AllowedOrigins string `env:"HTTP_ALLOWED_ORIGINS" envDefault:"*"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if !strings.HasPrefix(h.Addr, ":") && !strings.Contains(h.Addr, ":") {
		h.Addr = fmt.Sprintf(":%s", h.Addr)
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 5 * time.Second
	}
}

// Origins returns the configured CORS origins as a set.
func (h *HTTPConfig) Origins() map[string]struct{} {
	origins := make(map[string]struct{})
	for _, o := range strings.Split(h.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins[o] = struct{}{}
		}
	}
	return origins
}
