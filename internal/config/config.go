// Package config defines the scoreboard configuration and its loader.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// DBPath is the SQLite file holding the scores, or ":memory:".
	DBPath string `koanf:"db_path"`

	// Capacity is the number of scores kept on the board.
	Capacity int `koanf:"capacity"`

	// Player is the name used when a score is added without one.
	Player string `koanf:"player"`

	// BusyTimeoutMS is how long SQLite waits on a locked database.
	BusyTimeoutMS int `koanf:"busy_timeout_ms"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		DBPath:        "blast.db",
		Capacity:      5,
		BusyTimeoutMS: 5000,
	}
}

// BusyTimeout returns BusyTimeoutMS as a duration.
func (c *Config) BusyTimeout() time.Duration {
	return time.Duration(c.BusyTimeoutMS) * time.Millisecond
}
