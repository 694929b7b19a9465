package alerts

import (
	"fmt"
	"time"
)

// Config holds broker settings for verdict publishing.
type Config struct {
	// URL is the AMQP broker address. Empty disables publishing.
	URL string
	// Exchange is the topic exchange verdicts are published to.
	Exchange string
	// RoutingKey routes verdict messages within the exchange.
	RoutingKey string
	// ConnectTimeout bounds the initial dial.
	ConnectTimeout time.Duration
}

// DefaultConfig returns settings for a local broker. Publishing stays
// disabled until a URL is configured.
func DefaultConfig() Config {
	return Config{
		URL:            "",
		Exchange:       "deepguard.events",
		RoutingKey:     "verdicts",
		ConnectTimeout: 5 * time.Second,
	}
}

// Validate checks the configuration. An empty URL is valid and means
// publishing is disabled.
func (c Config) Validate() error {
	if c.URL == "" {
		return nil
	}
	if c.Exchange == "" {
		return fmt.Errorf("exchange is required")
	}
	if c.RoutingKey == "" {
		return fmt.Errorf("routing key is required")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %v", c.ConnectTimeout)
	}
	return nil
}
