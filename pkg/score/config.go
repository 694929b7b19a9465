package score

import "fmt"

// Config holds oracle configuration.
type Config struct {
	ModelPath string // Path to ONNX model
	InputSize int    // Square model input size in pixels
}

// DefaultConfig returns production defaults for Meso4.
func DefaultConfig() Config {
	return Config{
		ModelPath: "models/meso4.onnx",
		InputSize: 256,
	}
}

// Validate checks config values.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("model path is required")
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("input size must be positive, got %d", c.InputSize)
	}
	return nil
}
