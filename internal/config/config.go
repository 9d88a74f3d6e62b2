// Package config provides configuration types and helpers for cmpctrej.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// DefaultLogFile is where bitcoind writes its debug log on most installs.
const DefaultLogFile = "~/.bitcoin/debug.log"

// Config holds the application-wide configuration.
type Config struct {
	LogFile        string      `mapstructure:"log_file"`
	Format         string      `mapstructure:"format"`
	Verbose        bool        `mapstructure:"verbose"`
	Color          string      `mapstructure:"color"` // auto, always, never
	ReasonPrefixes []string    `mapstructure:"reason_prefixes"`
	Watch          WatchConfig `mapstructure:"watch"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	// Debounce is the quiet period after the last write before a re-run.
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("color", "auto")
	v.SetDefault("watch.debounce", 500*time.Millisecond)
}

// Load decodes the configuration held by v.
// An empty reason_prefixes list is left empty; callers fall back to the
// built-in prefix list in that case.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}
	if cfg.Watch.Debounce < 0 {
		return nil, fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	return &cfg, nil
}
