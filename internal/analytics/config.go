package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultMasteryThreshold = 85
	DefaultMasteryGoal      = 3
	DefaultWeeklyGoal       = 5
	DefaultWindowDays       = 30
	DefaultWeekStart        = time.Monday

	// MaxWindowDays caps the activity calendar at roughly a century.
	MaxWindowDays = 36600
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid analytics config")

// Config controls thresholds, windows and the calendar used by the engine.
type Config struct {
	// MasteryThreshold is the percentage a subject average must exceed to count as mastered.
	MasteryThreshold int
	MasteryGoal      int
	WeeklyGoal       int
	// WindowDays is the length of the trailing activity calendar, today included.
	WindowDays int
	WeekStart  time.Weekday
	// Location defines local calendar days and hours.
	Location *time.Location
}

// DefaultConfig returns the documented defaults in the process time zone.
func DefaultConfig() Config {
	return Config{
		MasteryThreshold: DefaultMasteryThreshold,
		MasteryGoal:      DefaultMasteryGoal,
		WeeklyGoal:       DefaultWeeklyGoal,
		WindowDays:       DefaultWindowDays,
		WeekStart:        DefaultWeekStart,
		Location:         time.Local,
	}
}

// Validate reports the first contract violation in cfg.
func (c Config) Validate() error {
	switch {
	case c.MasteryThreshold < 0 || c.MasteryThreshold > 100:
		return fmt.Errorf("%w: mastery threshold must be between 0 and 100, got %d", ErrInvalidConfig, c.MasteryThreshold)
	case c.MasteryGoal < 0:
		return fmt.Errorf("%w: mastery goal must be >= 0, got %d", ErrInvalidConfig, c.MasteryGoal)
	case c.WeeklyGoal <= 0:
		return fmt.Errorf("%w: weekly goal must be > 0, got %d", ErrInvalidConfig, c.WeeklyGoal)
	case c.WindowDays <= 0 || c.WindowDays > MaxWindowDays:
		return fmt.Errorf("%w: window must be between 1 and %d days, got %d", ErrInvalidConfig, MaxWindowDays, c.WindowDays)
	case c.WeekStart < time.Sunday || c.WeekStart > time.Saturday:
		return fmt.Errorf("%w: week start %d is not a weekday", ErrInvalidConfig, int(c.WeekStart))
	case c.Location == nil:
		return fmt.Errorf("%w: location is required", ErrInvalidConfig)
	}
	return nil
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// ParseWeekday maps a weekday name such as "monday" or "Mon" to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.HasPrefix(strings.ToLower(d.String()), name) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unknown week start %q", ErrInvalidConfig, name)
}
