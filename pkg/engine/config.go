package engine

import (
	"fmt"
	"time"
)

// Config holds engine loop settings.
type Config struct {
	// ExplanationInterval is the minimum time between explanation
	// refreshes. Zero refreshes on every stable iteration.
	ExplanationInterval time.Duration

	// StopTimeout bounds how long Stop waits for the loop to exit.
	StopTimeout time.Duration

	// ErrorBackoff is slept after a failed iteration.
	ErrorBackoff time.Duration

	// IdleSleep is slept when the capture source has no frame yet.
	IdleSleep time.Duration

	// FPSWindow is how many iteration durations the FPS average spans.
	FPSWindow int

	// ContextLabel names the analyzed content in explanations.
	ContextLabel string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		ExplanationInterval: 2 * time.Second,
		StopTimeout:         2 * time.Second,
		ErrorBackoff:        100 * time.Millisecond,
		IdleSleep:           10 * time.Millisecond,
		FPSWindow:           30,
		ContextLabel:        "video",
	}
}

// Validate checks config values.
func (c Config) Validate() error {
	if c.ExplanationInterval < 0 {
		return fmt.Errorf("explanation interval must be non-negative, got %v", c.ExplanationInterval)
	}
	if c.StopTimeout <= 0 {
		return fmt.Errorf("stop timeout must be positive, got %v", c.StopTimeout)
	}
	if c.ErrorBackoff <= 0 {
		return fmt.Errorf("error backoff must be positive, got %v", c.ErrorBackoff)
	}
	if c.IdleSleep <= 0 {
		return fmt.Errorf("idle sleep must be positive, got %v", c.IdleSleep)
	}
	if c.FPSWindow <= 0 {
		return fmt.Errorf("fps window must be positive, got %d", c.FPSWindow)
	}
	if c.ContextLabel == "" {
		return fmt.Errorf("context label is required")
	}
	return nil
}
