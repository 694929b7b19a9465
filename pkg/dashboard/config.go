package dashboard

import "fmt"

// Config controls the dashboard server.
type Config struct {
	// Addr is the listen address, e.g. ":8090".
	Addr string
	// LogBuffer caps the in-memory log ring.
	LogBuffer int
}

// DefaultConfig returns settings for local use.
func DefaultConfig() Config {
	return Config{
		Addr:      ":8090",
		LogBuffer: 500,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.LogBuffer <= 0 {
		return fmt.Errorf("log buffer must be positive, got %d", c.LogBuffer)
	}
	return nil
}
