package core

// Config represents the complete slashd configuration structure
type Config struct {
	Discord  DiscordConfig  `yaml:"discord"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Commands CommandsConfig `yaml:"commands"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DiscordConfig represents the Discord application configuration
type DiscordConfig struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guild_id"` // Empty means commands are registered globally
}

// DispatchConfig represents the event dispatcher configuration
type DispatchConfig struct {
	QueueSize    int    `yaml:"queue_size"`    // Gateway event channel buffer (default: 100)
	DrainTimeout string `yaml:"drain_timeout"` // Max wait for in-flight handlers on shutdown (e.g. "10s")
}

// CommandsConfig represents which built-in commands are enabled
type CommandsConfig struct {
	Enabled []string `yaml:"enabled"`
}

// SecurityConfig represents security and access control configuration
type SecurityConfig struct {
	WhitelistEnabled bool     `yaml:"whitelist_enabled"`
	AllowedUsers     []string `yaml:"allowed_users"`
}

// LoggingConfig represents logging configuration.
// Compress and EnableStdout are pointers so an explicit false in the YAML
// survives defaulting.
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     *bool  `yaml:"compress"`      // Whether to compress old logs (default: true)
	EnableStdout *bool  `yaml:"enable_stdout"` // Also output to stdout (default: true)
}
