package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/auth"
)

// DefaultBaseURL is the Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

const defaultUserAgent = "spotify-webapi-go/1.0"

// TokenProvider supplies bearer tokens for outbound requests.
// *auth.Authenticator satisfies it. invalidatePrevious forces a refresh and
// is set by the executor after a 401.
type TokenProvider interface {
	Token(ctx context.Context, invalidatePrevious bool) (*auth.Token, error)
}

// NetworkRecoveryConfig controls retries of transport-level failures
// (timeouts, connection resets). HTTP-level errors are not covered here;
// they follow the 401 and 429 policies.
type NetworkRecoveryConfig struct {
	// Enabled turns network retries on. When off, the first transport
	// failure surfaces immediately.
	Enabled bool

	// BaseDelay is the first backoff delay. Must be > 0 when enabled.
	BaseDelay time.Duration

	// MaxDelay caps the exponential backoff.
	MaxDelay time.Duration

	// Multiplier is the exponential backoff factor.
	Multiplier float64

	// MaxRetries is the number of additional sends after the first
	// failure. Must be >= 0.
	MaxRetries int
}

// Config holds the client configuration.
type Config struct {
	// Auth supplies bearer tokens. Required.
	Auth TokenProvider

	// BaseURL is the API root. Must be HTTPS unless the host is localhost.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient overrides the transport. When nil a client with
	// RequestTimeout is used.
	HTTPClient *http.Client

	// RequestTimeout bounds each HTTP attempt. Must not be negative;
	// defaults to 30 seconds.
	RequestTimeout time.Duration

	// MaxRateLimitRetries is the number of additional attempts after a
	// 429, honoring Retry-After between them. Must be >= 0.
	MaxRateLimitRetries int

	// NetworkRecovery controls transport-level retry behavior.
	NetworkRecovery NetworkRecoveryConfig

	// CustomHeaders are attached to every request. Names must be
	// well-formed header tokens.
	CustomHeaders map[string]string

	// DisableDeduplication turns off coalescing of identical in-flight
	// requests.
	DisableDeduplication bool

	// RequestsPerSecond throttles outbound requests. Zero means no
	// client-side throttle.
	RequestsPerSecond float64

	// UserAgent header value. Defaults to a library identifier.
	UserAgent string

	// Logger for request events. Defaults to the global logger scoped to
	// the client component.
	Logger *zerolog.Logger
}

// DefaultConfig returns a safe default configuration for the given token
// provider.
func DefaultConfig(authProvider TokenProvider) Config {
	return Config{
		Auth:                authProvider,
		BaseURL:             DefaultBaseURL,
		RequestTimeout:      30 * time.Second,
		MaxRateLimitRetries: 3,
		NetworkRecovery: NetworkRecoveryConfig{
			Enabled:    true,
			BaseDelay:  500 * time.Millisecond,
			MaxDelay:   10 * time.Second,
			Multiplier: 2.0,
			MaxRetries: 3,
		},
	}
}

// validate checks the configuration and fills defaulted fields. All
// failures are ConfigErrors; nothing is retried or corrected silently
// beyond zero-value defaulting.
func (cfg *Config) validate() error {
	if cfg.Auth == nil {
		return &ConfigError{Field: "auth", Reason: "token provider is required"}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return &ConfigError{Field: "base_url", Reason: "not a valid URL"}
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !isLoopbackHost(u.Hostname()) {
			return &ConfigError{Field: "base_url", Reason: "must use https unless the host is localhost"}
		}
	default:
		return &ConfigError{Field: "base_url", Reason: "must use https unless the host is localhost"}
	}

	if cfg.RequestTimeout < 0 {
		return &ConfigError{Field: "request_timeout", Reason: "must be greater than zero"}
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	if cfg.MaxRateLimitRetries < 0 {
		return &ConfigError{Field: "max_rate_limit_retries", Reason: "must not be negative"}
	}

	if err := cfg.NetworkRecovery.validate(); err != nil {
		return err
	}

	for name := range cfg.CustomHeaders {
		if !validHeaderName(name) {
			return &ConfigError{Field: "custom_headers", Reason: "malformed header name " + name}
		}
	}

	if cfg.RequestsPerSecond < 0 {
		return &ConfigError{Field: "requests_per_second", Reason: "must not be negative"}
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return nil
}

// validate checks the nested recovery parameters and fills defaults.
func (nr *NetworkRecoveryConfig) validate() error {
	if !nr.Enabled {
		return nil
	}
	if nr.BaseDelay < 0 {
		return &ConfigError{Field: "network_recovery.base_delay", Reason: "must be greater than zero"}
	}
	if nr.BaseDelay == 0 {
		nr.BaseDelay = 500 * time.Millisecond
	}
	if nr.MaxRetries < 0 {
		return &ConfigError{Field: "network_recovery.max_retries", Reason: "must not be negative"}
	}
	if nr.Multiplier < 1 {
		if nr.Multiplier != 0 {
			return &ConfigError{Field: "network_recovery.multiplier", Reason: "must be at least 1"}
		}
		nr.Multiplier = 2.0
	}
	if nr.MaxDelay == 0 {
		nr.MaxDelay = 10 * time.Second
	}
	if nr.MaxDelay < nr.BaseDelay {
		return &ConfigError{Field: "network_recovery.max_delay", Reason: "must not be below base_delay"}
	}
	return nil
}

func isLoopbackHost(host string) bool {
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// validHeaderName reports whether name is a well-formed header field name
// (an RFC 7230 token: no control characters, no separators).
func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isTokenChar(name[i]) {
			return false
		}
	}
	return true
}

func isTokenChar(c byte) bool {
	if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
