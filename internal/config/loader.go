package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var keys = []string{
	"api_url",
	"cdn_base_url",
	"default_avatar_url",
	"data_dir",
	"log_level",
	"requests_per_second",
	"burst",
	"trip_poll_interval",
	"schedule_refresh_interval",
	"http_timeout",
}

// InitViper points v at configFile, or at the first planit.yaml/.yml found
// in the working directory or ~/.planit, and enables PLANIT_* overrides.
// A .env file in the working directory is loaded into the environment
// first; variables already set win.
func InitViper(v *viper.Viper, configFile string) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "planit: ignoring .env: %v\n", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else if found := findConfigFile(); found != "" {
		v.SetConfigFile(found)
	} else {
		v.SetConfigName("planit")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PLANIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

func findConfigFile() string {
	home, _ := os.UserHomeDir()
	return findConfigFileInPaths([]string{".", filepath.Join(home, ".planit")})
}

// findConfigFileInPaths returns the first planit.yaml or planit.yml in paths.
func findConfigFileInPaths(paths []string) string {
	for _, dir := range paths {
		for _, ext := range []string{".yaml", ".yml"} {
			path := filepath.Join(dir, "planit"+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Load reads the config file (if any), applies env overrides and
// defaults, and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.Load: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: unmarshal: %w", err)
	}
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}
