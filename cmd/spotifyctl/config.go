package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the CLI configuration, merged from a TOML file, a .env file,
// and process environment variables. Environment values win over file
// values.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Client  ClientConfig  `toml:"client"`
	Logging LoggingConfig `toml:"logging"`
}

// SpotifyConfig carries the app credentials for the client-credentials
// flow.
type SpotifyConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	Scopes       []string `toml:"scopes"`
}

// ClientConfig tunes the request pipeline.
type ClientConfig struct {
	MaxRateLimitRetries int     `toml:"max_rate_limit_retries"`
	RequestsPerSecond   float64 `toml:"requests_per_second"`

	// TokenFile enables the file-backed token store when set.
	TokenFile string `toml:"token_file"`
}

// LoggingConfig selects log output.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

func defaultConfig() *Config {
	return &Config{
		Client: ClientConfig{
			MaxRateLimitRetries: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// loadConfig resolves the effective configuration. The TOML file is
// optional; a missing path falls back to defaults. A .env file in the
// working directory is loaded without overriding variables already set in
// the environment.
func loadConfig(path string) (*Config, error) {
	// godotenv never overwrites existing variables, so real environment
	// values keep precedence over .env entries.
	_ = godotenv.Load()

	cfg := defaultConfig()
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		cfg.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client_id and client_secret must be set via %s or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET", path)
	}
	return cfg, nil
}
