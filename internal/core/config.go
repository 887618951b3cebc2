// Package core provides configuration loading and validation for slashd.
//
// Configuration is loaded from a YAML file with the following main sections:
//
//   - discord: application credential and registration target
//   - dispatch: event queue sizing and shutdown drain behavior
//   - commands: which built-in commands are enabled
//   - security: access control and whitelisting
//   - logging: log configuration
//
// # Example Configuration
//
//   discord:
//     token: "${SLASHD_DISCORD_TOKEN}"
//     guild_id: "123456789012345678"
//   dispatch:
//     queue_size: 100
//     drain_timeout: "10s"
//   commands:
//     enabled: ["ping", "hello", "echo"]
//   security:
//     whitelist_enabled: false
//
package core

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/keepmind9/slashd/pkg/constants"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLogLevel        = "info"
	DefaultLogMaxSize      = 100 // MB
	DefaultLogMaxBackups   = 5
	DefaultLogMaxAge       = 30 // days
	DefaultLogCompress     = true
	DefaultLogEnableStdout = true

	DefaultDrainTimeout = "10s"
)

// LoadConfig loads configuration from file and expands environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Read configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	expandedData, err := expandEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to expand environment variables: %w", err)
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		missingVars = append(missingVars, key)
		return "" // Return empty string to let config parsing fail
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}

	return result, nil
}

// validateConfig performs basic validation on the configuration
func validateConfig(config *Config) error {
	// The credential is the one required field
	if strings.TrimSpace(config.Discord.Token) == "" {
		return fmt.Errorf("discord.token must be set")
	}

	// Set dispatch defaults
	if config.Dispatch.QueueSize == 0 {
		config.Dispatch.QueueSize = constants.EventChannelBufferSize
	}
	if config.Dispatch.QueueSize < 1 || config.Dispatch.QueueSize > 10000 {
		return fmt.Errorf("dispatch.queue_size must be between 1 and 10000 (got %d)", config.Dispatch.QueueSize)
	}
	if config.Dispatch.DrainTimeout == "" {
		config.Dispatch.DrainTimeout = DefaultDrainTimeout
	}
	drain, err := time.ParseDuration(config.Dispatch.DrainTimeout)
	if err != nil {
		return fmt.Errorf("invalid dispatch.drain_timeout: %w", err)
	}
	if drain < 0 {
		return fmt.Errorf("dispatch.drain_timeout must not be negative (got %v)", drain)
	}

	// Set default logging configuration
	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = DefaultLogMaxAge
	}
	// nil means unset; an explicit false stays false
	if config.Logging.Compress == nil {
		v := DefaultLogCompress
		config.Logging.Compress = &v
	}
	if config.Logging.EnableStdout == nil {
		v := DefaultLogEnableStdout
		config.Logging.EnableStdout = &v
	}

	// Validate security settings
	if config.Security.WhitelistEnabled {
		if len(config.Security.AllowedUsers) == 0 {
			return fmt.Errorf("security.allowed_users cannot be empty when whitelist is enabled")
		}
	}

	// Every enabled command name must be non-empty
	for i, name := range config.Commands.Enabled {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("commands.enabled[%d] is empty", i)
		}
	}

	return nil
}

// DrainTimeout returns the parsed shutdown drain timeout.
// Validation guarantees the stored value parses.
func (c *Config) DrainTimeout() time.Duration {
	d, err := time.ParseDuration(c.Dispatch.DrainTimeout)
	if err != nil {
		return constants.DefaultDrainTimeout
	}
	return d
}

// CommandEnabled reports whether a built-in command is enabled.
// An empty enabled list means all built-in commands are active.
func (c *Config) CommandEnabled(name string) bool {
	if len(c.Commands.Enabled) == 0 {
		return true
	}
	for _, n := range c.Commands.Enabled {
		if n == name {
			return true
		}
	}
	return false
}

// IsUserAuthorized checks if a user is in the whitelist
func (c *Config) IsUserAuthorized(userID string) bool {
	// If whitelist is disabled, allow all users (warning: not recommended for production)
	if !c.Security.WhitelistEnabled {
		return true
	}

	for _, uid := range c.Security.AllowedUsers {
		if uid == userID {
			return true
		}
	}

	return false
}
