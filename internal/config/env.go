package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables read after LoadEnv.
const (
	EnvDBPath   = "STUDYFLOW_DB"
	EnvTimezone = "STUDYFLOW_TZ"
	EnvLogLevel = "STUDYFLOW_LOG_LEVEL"
)

// LoadEnv loads variables from the given dotenv files without overriding the
// environment. Missing files are skipped.
func LoadEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}
