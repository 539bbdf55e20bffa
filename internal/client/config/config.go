package config

import "time"

// Config holds runtime settings for the jobtrack CLI.
//
// Fields:
//   - ServerBaseURL: scheme://host[:port] of the tracker backend, no
//     trailing slash.
//   - DatabasePath: location of the local state database.
//   - RefreshTimeout: deadline for the token refresh exchange.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RefreshTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.DatabasePath = "jobtrack.db"
	c.RefreshTimeout = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
