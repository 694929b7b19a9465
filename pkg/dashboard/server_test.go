package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omtripathi52/deepguard/pkg/capture"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/detect"
	"github.com/omtripathi52/deepguard/pkg/engine"
	"github.com/omtripathi52/deepguard/pkg/explain"
	"github.com/omtripathi52/deepguard/pkg/narrative"
	"github.com/omtripathi52/deepguard/pkg/score"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

type stubSource struct{}

func (stubSource) CaptureFrame() ([]byte, error) { return nil, nil }
func (stubSource) Stats() capture.CaptureStats   { return capture.CaptureStats{TargetFPS: 10} }
func (stubSource) Close() error                  { return nil }

type stubLocator struct{}

func (stubLocator) Locate(frame []byte) ([]detect.Face, error) { return nil, nil }

type stubScorer struct{}

func (stubScorer) Predict(face []byte) (score.Prediction, error) {
	return score.Prediction{}, nil
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()

	agg := temporal.New(temporal.DefaultConfig(), confidence.New(confidence.DefaultConfig()))
	provider := explain.New(explain.DefaultConfig(), narrative.NewDisabled())

	eng, err := engine.New(engine.DefaultConfig(), engine.Deps{
		Source:     stubSource{},
		Locator:    stubLocator{},
		Scorer:     stubScorer{},
		Aggregator: agg,
		Provider:   provider,
	})
	if err != nil {
		t.Fatalf("engine.New error: %v", err)
	}

	srv, err := NewServer(cfg, eng)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return srv
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(Config{Addr: "", LogBuffer: 500}, nil); err == nil {
		t.Error("NewServer should reject an empty listen address")
	}
	if _, err := NewServer(DefaultConfig(), nil); err == nil {
		t.Error("NewServer should reject a nil engine")
	}
}

func TestAPIStatusBeforeFirstIteration(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest("GET", "/api/status", nil)
	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 503 {
		t.Errorf("Status = %d, want 503", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "starting") {
		t.Error("Response should report 'starting' before the first snapshot")
	}
}

func TestAPIStats(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest("GET", "/api/stats", nil)
	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "session_id") {
		t.Error("Response should contain 'session_id' field")
	}
	if !strings.Contains(string(body), "capture_stats") {
		t.Error("Response should contain 'capture_stats' field")
	}
}

func TestAPILogs(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())
	srv.AddLog("info", "pipeline ready")

	req := httptest.NewRequest("GET", "/api/logs", nil)
	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "pipeline ready") {
		t.Error("Response should contain the logged message")
	}
}

func TestLogRingDropsOldest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogBuffer = 5
	srv := newTestServer(t, cfg)

	for i := 0; i < 10; i++ {
		srv.AddLog("info", fmt.Sprintf("entry-%d", i))
	}

	req := httptest.NewRequest("GET", "/api/logs", nil)
	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	var payload struct {
		Logs  []LogEntry `json:"logs"`
		Count int        `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("Decode error: %v", err)
	}

	if payload.Count != 5 {
		t.Errorf("Count = %d, want 5", payload.Count)
	}
	if got := payload.Logs[0].Message; got != "entry-5" {
		t.Errorf("oldest retained = %q, want entry-5", got)
	}
	if got := payload.Logs[4].Message; got != "entry-9" {
		t.Errorf("newest retained = %q, want entry-9", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest("GET", "/metrics", nil)
	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Status = %d, want 200", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "deepguard_frames_processed_total") {
		t.Error("Metrics output should contain the frame counter")
	}
}

func TestWSRequiresUpgrade(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	req := httptest.NewRequest("GET", "/ws/status", nil)
	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Request error: %v", err)
	}

	if resp.StatusCode != 426 {
		t.Errorf("Status = %d, want 426 Upgrade Required", resp.StatusCode)
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv := newTestServer(t, DefaultConfig())

	done := make(chan error, 1)
	go func() { done <- srv.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Shutdown error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown hung before Start")
	}
}

func TestLogsWSReplaysBacklog(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = ":18091"
	srv := newTestServer(t, cfg)

	srv.AddLog("info", "before-connect")

	srv.StartAsync()
	defer srv.Shutdown()
	time.Sleep(100 * time.Millisecond)

	ws, _, err := websocket.DefaultDialer.Dial("ws://localhost:18091/ws/logs", nil)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	defer ws.Close()

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first LogEntry
	if err := ws.ReadJSON(&first); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if first.Message != "before-connect" {
		t.Errorf("backlog message = %q, want before-connect", first.Message)
	}

	// Give the handler time to register with the hub before the next
	// broadcast.
	time.Sleep(100 * time.Millisecond)

	srv.AddLog("verdict", "after-connect")

	var second LogEntry
	if err := ws.ReadJSON(&second); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if second.Message != "after-connect" {
		t.Errorf("live message = %q, want after-connect", second.Message)
	}
	if second.Level != "verdict" {
		t.Errorf("live level = %q, want verdict", second.Level)
	}
}
