// Package config loads planit settings from file, environment and .env.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultAPIURL is the production API base URL.
const DefaultAPIURL = "http://planit-ai.store/api"

// Config is the resolved client configuration.
type Config struct {
	APIURL                  string        `mapstructure:"api_url" validate:"required,url"`
	CDNBaseURL              string        `mapstructure:"cdn_base_url" validate:"omitempty,url"`
	DefaultAvatarURL        string        `mapstructure:"default_avatar_url" validate:"omitempty,url"`
	DataDir                 string        `mapstructure:"data_dir" validate:"required"`
	LogLevel                string        `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	RequestsPerSecond       float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst                   int           `mapstructure:"burst" validate:"min=1"`
	TripPollInterval        time.Duration `mapstructure:"trip_poll_interval" validate:"min_duration=1s"`
	ScheduleRefreshInterval time.Duration `mapstructure:"schedule_refresh_interval" validate:"min_duration=1s"`
	HTTPTimeout             time.Duration `mapstructure:"http_timeout" validate:"min_duration=1s"`
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	c.DataDir = expandHome(c.DataDir)
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 10
	}
	if c.Burst == 0 {
		c.Burst = 20
	}
	if c.TripPollInterval == 0 {
		c.TripPollInterval = 5 * time.Minute
	}
	if c.ScheduleRefreshInterval == 0 {
		c.ScheduleRefreshInterval = time.Minute
	}
	if c.HTTPTimeout == 0 {
		c.HTTPTimeout = 30 * time.Second
	}
}

// StoragePath is the key-value file holding the persisted session.
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, "storage.json")
}

// LogPath is where the TUI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "planit.log")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planit"
	}
	return filepath.Join(home, ".planit")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
