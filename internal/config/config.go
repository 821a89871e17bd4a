// Package config loads client configuration.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the client configuration.
type Config struct {
	ServerURL    string        `mapstructure:"server_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	DefaultSort  string        `mapstructure:"default_sort"`
	DownloadDir  string        `mapstructure:"download_dir"`
	LogFile      string        `mapstructure:"log_file"`
	LogLevel     string        `mapstructure:"log_level"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "sdrive", "config.yaml")
}

// Load reads configuration from path. A missing file is not an error; the
// defaults stand.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("server_url", "http://localhost:5000")
	v.SetDefault("poll_interval", 15*time.Second)
	v.SetDefault("default_sort", "name-asc")
	v.SetDefault("download_dir", defaultDownloadDir())
	v.SetDefault("log_level", "info")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
