package explain

import (
	"fmt"
	"math/rand"
	"time"
)

// Config holds explanation provider settings.
type Config struct {
	// CacheTTL is how long a generated explanation may be reused.
	CacheTTL time.Duration `json:"cache_ttl"`

	// Timeout bounds a single remote generation call.
	Timeout time.Duration `json:"timeout"`

	// FallbackEnabled is configured but not consulted: the provider
	// always degrades to templates, matching the deployed behavior.
	FallbackEnabled bool `json:"fallback_enabled"`

	// Selector picks a fallback template index in [0,n). Injectable
	// so tests can pin the choice; defaults to math/rand.
	Selector func(n int) int `json:"-"`
}

// DefaultConfig returns the tuned production settings.
func DefaultConfig() Config {
	return Config{
		CacheTTL:        5 * time.Second,
		Timeout:         10 * time.Second,
		FallbackEnabled: true,
		Selector:        rand.Intn,
	}
}

// Validate checks the config values are usable.
func (c Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
