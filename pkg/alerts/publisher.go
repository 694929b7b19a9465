// Package alerts publishes verdict change events to an AMQP topic
// exchange so downstream consumers react to detections without
// polling the dashboard.
package alerts

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/pkg/engine"
)

// Publisher sends verdict events to the broker. Without a configured
// URL it accepts and drops events, so the pipeline runs unchanged
// when no broker is deployed.
type Publisher struct {
	cfg     Config
	enabled bool

	mu        sync.RWMutex
	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool

	stop      chan struct{}
	closeOnce sync.Once
}

var _ engine.VerdictSink = (*Publisher)(nil)

// NewPublisher connects to the broker and declares the exchange. With
// an empty URL it returns a disabled publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("alerts config: %w", err)
	}

	p := &Publisher{
		cfg:  cfg,
		stop: make(chan struct{}),
	}

	if cfg.URL == "" {
		log.Warn("alert publishing disabled, no broker URL configured")
		return p, nil
	}
	p.enabled = true

	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials the broker, opens a channel and declares the topic
// exchange.
func (p *Publisher) connect() error {
	conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Dial:      amqp.DefaultDial(p.cfg.ConnectTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.cfg.Exchange,
		"topic",
		true,  // Durable
		false, // Auto-delete
		false, // Internal
		false, // No-wait
		nil,   // Arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.mu.Lock()
	p.conn = conn
	p.channel = channel
	p.connected = true
	p.mu.Unlock()

	go p.monitor(conn)

	log.Info("connected to alert broker",
		"exchange", p.cfg.Exchange, "routing_key", p.cfg.RoutingKey)
	return nil
}

// monitor watches for the connection dropping and reconnects with a
// capped backoff until Close is called.
func (p *Publisher) monitor(conn *amqp.Connection) {
	closeCh := conn.NotifyClose(make(chan *amqp.Error, 1))

	var closeErr *amqp.Error
	select {
	case <-p.stop:
		return
	case closeErr = <-closeCh:
	}
	// A nil error means the connection was closed locally.
	if closeErr == nil {
		return
	}

	p.mu.Lock()
	p.connected = false
	p.mu.Unlock()

	log.Warn("broker connection lost, reconnecting", "error", closeErr)

	backoff := time.Second
	for {
		select {
		case <-p.stop:
			return
		case <-time.After(backoff):
		}

		if err := p.connect(); err != nil {
			log.Error("broker reconnect failed", "error", err, "backoff", backoff)
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
			continue
		}
		// connect started a monitor for the new connection.
		return
	}
}

// Publish sends one verdict event. Best-effort: the engine logs
// errors and keeps running.
func (p *Publisher) Publish(event engine.VerdictEvent) error {
	if !p.enabled {
		return nil
	}

	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.connected || p.channel == nil {
		return fmt.Errorf("not connected to broker")
	}

	err = p.channel.Publish(
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish verdict: %w", err)
	}

	log.Debug("published verdict event",
		"level", event.Level, "routing_key", p.cfg.RoutingKey)
	return nil
}

func encodeEvent(event engine.VerdictEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verdict event: %w", err)
	}
	return body, nil
}

// Enabled reports whether a broker URL was configured.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// Close stops reconnection attempts and closes the broker connection.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() { close(p.stop) })

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.connected {
		return nil
	}
	p.connected = false

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
