package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/omtripathi52/deepguard/pkg/hub"
)

// handleStatus returns the latest engine snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	state := s.eng.State()
	if state == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "starting",
		})
	}
	return c.JSON(state)
}

// handleStats returns engine throughput statistics.
func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.eng.Stats())
}

// handleLogs returns the buffered log entries.
func (s *Server) handleLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	logs := make([]LogEntry, len(s.logs))
	copy(logs, s.logs)
	s.logsMu.RUnlock()

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}

// handleStatusWS streams engine snapshots. The hub delivers its
// retained snapshot on connect, so new clients render current state
// without waiting for the next loop iteration.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	client := hub.NewClient(s.statusHub, c)
	client.Run()
}

// handleLogsWS replays the buffered log entries, then streams new
// ones. Entries logged between the replay snapshot and hub
// registration may be missed; the panel catches up on the next entry.
func (s *Server) handleLogsWS(c *websocket.Conn) {
	s.logsMu.RLock()
	backlog := make([]LogEntry, len(s.logs))
	copy(backlog, s.logs)
	s.logsMu.RUnlock()

	for _, entry := range backlog {
		if err := c.WriteJSON(entry); err != nil {
			return
		}
	}

	client := hub.NewClient(s.logHub, c)
	client.Run()
}
