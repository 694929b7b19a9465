package temporal

import (
	"fmt"
	"time"
)

// Config holds the temporal smoothing parameters.
type Config struct {
	// WindowSize is the sliding window capacity in frames.
	WindowSize int `json:"window_size"`

	// DecayFactor is the exponential decay applied per frame of age.
	// Recent frames are weighted higher.
	DecayFactor float64 `json:"decay_factor"`

	// StabilityThreshold is the max smoothed-score change between
	// frames that still counts as "no significant change".
	StabilityThreshold float64 `json:"stability_threshold"`

	// DisplayInterval throttles time-based display refreshes.
	DisplayInterval time.Duration `json:"display_interval"`
}

// DefaultConfig returns the tuned production parameters.
func DefaultConfig() Config {
	return Config{
		WindowSize:         30,
		DecayFactor:        0.95,
		StabilityThreshold: 0.15,
		DisplayInterval:    500 * time.Millisecond,
	}
}

// Validate checks the config values are usable.
func (c Config) Validate() error {
	if c.WindowSize < minSamples {
		return fmt.Errorf("window_size must be at least %d, got %d", minSamples, c.WindowSize)
	}
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return fmt.Errorf("decay_factor must be in (0,1], got %v", c.DecayFactor)
	}
	if c.StabilityThreshold <= 0 {
		return fmt.Errorf("stability_threshold must be positive, got %v", c.StabilityThreshold)
	}
	if c.DisplayInterval <= 0 {
		return fmt.Errorf("display_interval must be positive, got %v", c.DisplayInterval)
	}
	return nil
}
