// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analytics AnalyticsConfig `toml:"analytics"`
	Log       LogConfig       `toml:"log"`
}

// AnalyticsConfig maps engine settings. Nil fields keep their defaults.
type AnalyticsConfig struct {
	MasteryThreshold *int    `toml:"mastery-threshold"`
	MasteryGoal      *int    `toml:"mastery-goal"`
	WeeklyGoal       *int    `toml:"weekly-goal"`
	WindowDays       *int    `toml:"window-days"`
	WeekStart        *string `toml:"week-start"`
	Timezone         *string `toml:"timezone"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
