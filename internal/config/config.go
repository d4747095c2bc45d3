// Package config loads application configuration from the environment.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration. DatabaseURL is the only required
// value; a missing value is a fatal startup condition.
type Config struct {
	Addr   string `envconfig:"ADDR" default:":8080"`
	WebDir string `envconfig:"WEB_DIR" default:"web"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`

	// Optional OIDC SSO. SSO is enabled only when all four values are set.
	OIDCIssuer       string `envconfig:"OIDC_ISSUER"`
	OIDCClientID     string `envconfig:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	OIDCRedirectURL  string `envconfig:"OIDC_REDIRECT_URL"`

	MessagePollInterval time.Duration `envconfig:"MESSAGE_POLL_INTERVAL" default:"30s"`
	StatsPollInterval   time.Duration `envconfig:"STATS_POLL_INTERVAL" default:"60s"`

	QueryMaxAttempts  int           `envconfig:"QUERY_MAX_ATTEMPTS" default:"2"`
	QueryRetryBackoff time.Duration `envconfig:"QUERY_RETRY_BACKOFF" default:"500ms"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// SSOEnabled reports whether all OIDC settings are present.
func (c Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != "" && c.OIDCClientSecret != "" && c.OIDCRedirectURL != ""
}
