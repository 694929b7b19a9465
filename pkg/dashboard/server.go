// Package dashboard provides a real-time web view of the detection
// engine: REST endpoints for state and stats, Prometheus metrics, and
// WebSocket streams for snapshots and pipeline logs.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/internal/metrics"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/engine"
	"github.com/omtripathi52/deepguard/pkg/hub"
)

// LogEntry represents a log line for the dashboard
type LogEntry struct {
	Time    string `json:"time"`
	Level   string `json:"level"` // info, warn, error, verdict
	Message string `json:"message"`
}

// Server is the web dashboard server
type Server struct {
	app *fiber.App
	cfg Config
	eng *engine.Engine

	// Log buffer (newest last)
	logs   []LogEntry
	logsMu sync.RWMutex

	// Hubs for websocket broadcast (thread-safe!)
	statusHub *hub.Hub
	logHub    *hub.Hub

	mu       sync.Mutex
	started  bool
	stopOnce sync.Once

	relayStop chan struct{}
	relayDone chan struct{}
}

// NewServer wires routes against the given engine.
func NewServer(cfg Config, eng *engine.Engine) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dashboard config: %w", err)
	}
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}

	s := &Server{
		cfg:       cfg,
		eng:       eng,
		logs:      make([]LogEntry, 0, cfg.LogBuffer),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
		relayStop: make(chan struct{}),
		relayDone: make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "DeepGuard Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/stats", s.handleStats)
	api.Get("/logs", s.handleLogs)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	app.Get("/ws/logs", websocket.New(s.handleLogsWS))

	s.app = app
	return s, nil
}

// Start runs the hubs, the snapshot relay and the HTTP listener. It
// blocks until Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	if !s.started {
		s.started = true
		go s.statusHub.Run()
		go s.logHub.Run()
		go s.relaySnapshots()
	}
	s.mu.Unlock()

	log.Info("dashboard listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server", "error", err)
		}
	}()
}

// relaySnapshots drains the engine snapshot stream into the status
// hub. The hub retains the newest payload, so clients connecting
// later still receive the current state. Stable verdict changes are
// surfaced in the log stream as well.
func (s *Server) relaySnapshots() {
	defer close(s.relayDone)

	var lastLevel confidence.Level
	var haveLevel bool

	for {
		select {
		case <-s.relayStop:
			return
		case snap := <-s.eng.Snapshots():
			if err := s.statusHub.BroadcastRetained(snap); err != nil {
				log.Warn("broadcast engine state", "error", err)
				continue
			}
			if snap.Temporal == nil || !snap.Temporal.IsStable {
				continue
			}
			level := snap.Temporal.Result.Level
			if haveLevel && level == lastLevel {
				continue
			}
			lastLevel = level
			haveLevel = true
			s.AddLog("verdict", fmt.Sprintf("verdict settled on %s at %d%% confidence",
				level, snap.Temporal.Result.ConfidencePct))
		}
	}
}

// AddLog appends an entry to the ring and broadcasts it to log stream
// clients.
func (s *Server) AddLog(level, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Level:   level,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > s.cfg.LogBuffer {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	if err := s.logHub.Broadcast(entry); err != nil {
		log.Warn("broadcast log entry", "error", err)
	}
}

// ClientCount returns the number of connected status stream clients.
func (s *Server) ClientCount() int {
	return s.statusHub.ClientCount()
}

// Shutdown stops the snapshot relay and the HTTP listener.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	if started {
		s.stopOnce.Do(func() {
			close(s.relayStop)
			<-s.relayDone
		})
	}
	return s.app.Shutdown()
}
