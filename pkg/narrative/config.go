package narrative

import "time"

// Config holds generator configuration.
type Config struct {
	// APIKey authenticates against the remote service.
	APIKey string

	// Model is the generation model identifier.
	Model string

	// Request defaults
	MaxOutputTokens int
	Temperature     float64

	// Timeout bounds a single generation call. The caller applies it
	// via context; it is carried here so owners can read it.
	Timeout time.Duration
}

// Option is a functional option for configuring generators.
type Option func(*Config)

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the generation model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithMaxOutputTokens sets the output token cap.
func WithMaxOutputTokens(n int) Option {
	return func(c *Config) { c.MaxOutputTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) { c.Temperature = t }
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// DefaultConfig returns sensible defaults for Gemini.
func DefaultConfig() *Config {
	return &Config{
		Model:           "gemini-2.0-flash-exp",
		MaxOutputTokens: 256,
		Temperature:     0.7,
		Timeout:         10 * time.Second,
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	if c.Model == "" {
		return ErrNoModel
	}
	return nil
}
