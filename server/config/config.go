package config

import (
	"errors"
	"os"
	"regexp"

	"github.com/pelletier/go-toml"
)

const DefaultListenAddress = "0.0.0.0:8080"

var ErrInvalidListenAddress = errors.New("invalid listen address")

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// Config defines the base-level server configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The associated Telegram bot config, if any
	Telegram *Telegram `toml:"telegram"`

	// The address at which the server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`
}

// CORS defines the browser cross-origin policy for the API
type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// Telegram defines the bot surface configuration.
// The bot token itself is taken from the environment, never from disk
type Telegram struct {
	// The @channel analyses are re-posted to, if any
	Channel string `toml:"channel"`

	// The public base URL the webhook is registered under
	WebhookBaseURL string `toml:"webhook_base_url"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: DefaultListenAddress,
		CORSConfig:    DefaultCORSConfig(),
	}
}

// DefaultCORSConfig returns the default, permissive CORS configuration
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}

// ValidateConfig validates the server configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	return nil
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it
	var cfg Config

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
