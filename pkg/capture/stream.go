package capture

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omtripathi52/deepguard/internal/log"
)

// Stream receives JPEG frames over a websocket feed and serves the
// most recent one through the rate-gated CaptureFrame contract.
// A background goroutine keeps the latest frame current and reconnects
// on read failures.
type Stream struct {
	url   string
	gate  *rateGate
	stats *statsTracker

	ws   *websocket.Conn
	wsMu sync.Mutex

	latest  []byte
	frameMu sync.RWMutex

	mu     sync.Mutex
	closed bool
}

var _ Source = (*Stream)(nil)

// DialStream connects to the configured websocket feed and starts the
// receive loop.
func DialStream(cfg Config) (*Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capture config: %w", err)
	}
	if cfg.StreamURL == "" {
		return nil, fmt.Errorf("stream url is required")
	}

	ws, err := dialWS(cfg.StreamURL)
	if err != nil {
		return nil, fmt.Errorf("connect stream: %w", err)
	}

	s := &Stream{
		url:   cfg.StreamURL,
		gate:  newRateGate(cfg.TargetFPS),
		stats: newStatsTracker(cfg.TargetFPS),
		ws:    ws,
	}
	go s.readLoop()
	return s, nil
}

func dialWS(url string) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	ws, _, err := dialer.Dial(url, nil)
	return ws, err
}

func (s *Stream) readLoop() {
	for {
		s.wsMu.Lock()
		ws := s.ws
		s.wsMu.Unlock()

		_, msg, err := ws.ReadMessage()
		if err != nil {
			if s.isClosed() {
				return
			}
			log.Warn("stream read failed, reconnecting", "url", s.url, "error", err)
			if !s.reconnect() {
				return
			}
			continue
		}

		if len(msg) == 0 {
			continue
		}

		s.frameMu.Lock()
		s.latest = msg
		s.frameMu.Unlock()
	}
}

// reconnect dials until it succeeds or the stream is closed.
func (s *Stream) reconnect() bool {
	for !s.isClosed() {
		ws, err := dialWS(s.url)
		if err != nil {
			log.Warn("stream reconnect failed", "url", s.url, "error", err)
			time.Sleep(time.Second)
			continue
		}

		s.wsMu.Lock()
		s.ws = ws
		s.wsMu.Unlock()
		log.Info("stream reconnected", "url", s.url)
		return true
	}
	return false
}

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// CaptureFrame returns a copy of the most recent frame. Before the
// first frame arrives, and between rate-gate ticks, it returns
// (nil, nil).
func (s *Stream) CaptureFrame() ([]byte, error) {
	s.frameMu.RLock()
	latest := s.latest
	s.frameMu.RUnlock()

	if latest == nil {
		return nil, nil
	}

	s.mu.Lock()
	ok := s.gate.ready()
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	start := time.Now()
	frame := make([]byte, len(latest))
	copy(frame, latest)
	s.stats.record(time.Since(start))
	return frame, nil
}

// WaitForFrame blocks until a frame is available or the timeout
// elapses. Useful at startup before the feed warms up.
func (s *Stream) WaitForFrame(timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		s.frameMu.RLock()
		latest := s.latest
		s.frameMu.RUnlock()

		if latest != nil {
			frame := make([]byte, len(latest))
			copy(frame, latest)
			return frame, nil
		}
		time.Sleep(50 * time.Millisecond)
	}

	return nil, fmt.Errorf("timeout waiting for frame")
}

// Stats returns receive throughput statistics.
func (s *Stream) Stats() CaptureStats {
	return s.stats.snapshot()
}

// Close stops the receive loop and closes the connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.wsMu.Lock()
	defer s.wsMu.Unlock()
	return s.ws.Close()
}
