package capture

import "fmt"

// Config holds capture source configuration.
type Config struct {
	Device      int     // Camera device index
	TargetFPS   float64 // Capture rate ceiling
	Width       int     // Requested frame width, 0 keeps the device default
	Height      int     // Requested frame height, 0 keeps the device default
	JPEGQuality int     // Encode quality 1-100
	StreamURL   string  // Websocket frame feed, used by DialStream
}

// DefaultConfig returns production capture defaults.
func DefaultConfig() Config {
	return Config{
		Device:      0,
		TargetFPS:   10,
		Width:       1280,
		Height:      720,
		JPEGQuality: 85,
	}
}

// Validate checks config values.
func (c Config) Validate() error {
	if c.TargetFPS <= 0 {
		return fmt.Errorf("target fps must be positive, got %v", c.TargetFPS)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be in [1, 100], got %d", c.JPEGQuality)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("frame size must be non-negative, got %dx%d", c.Width, c.Height)
	}
	return nil
}
