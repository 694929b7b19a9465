// Package engine orchestrates the detection pipeline: capture, face
// location, scoring, temporal aggregation, explanation and state
// publishing.
//
// One background goroutine owns the loop. Consumers either poll
// State() for the latest snapshot or drain Snapshots(), a single-slot
// channel where the newest state always wins.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/pkg/capture"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/detect"
	"github.com/omtripathi52/deepguard/pkg/explain"
	"github.com/omtripathi52/deepguard/pkg/score"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

// Status describes what the engine did in its latest iteration.
type Status string

const (
	StatusRunning   Status = "running"
	StatusNoFaces   Status = "no_faces"
	StatusAnalyzing Status = "analyzing"
	StatusError     Status = "error"
	StatusComplete  Status = "complete"
)

// EngineState is an immutable snapshot of one loop iteration. Pointer
// fields reference per-iteration copies that are never mutated after
// publishing.
type EngineState struct {
	IsRunning     bool                 `json:"is_running"`
	FacesDetected int                  `json:"faces_detected"`
	Temporal      *temporal.State      `json:"temporal_state,omitempty"`
	Explanation   *explain.Explanation `json:"explanation,omitempty"`
	FPS           float64              `json:"fps"`
	Status        Status               `json:"status"`
	SessionID     string               `json:"session_id"`
	Timestamp     time.Time            `json:"timestamp"`
}

// VerdictEvent is emitted when a stable verdict settles on a new
// confidence tier.
type VerdictEvent struct {
	SessionID      string           `json:"session_id"`
	Level          confidence.Level `json:"level"`
	Score          float64          `json:"score"`
	ConfidencePct  int              `json:"confidence_pct"`
	Trend          temporal.Trend   `json:"trend"`
	FramesAnalyzed int              `json:"frames_analyzed"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Stats summarizes engine throughput.
type Stats struct {
	SessionID       string               `json:"session_id"`
	FramesProcessed int64                `json:"frames_processed"`
	Capture         capture.CaptureStats `json:"capture_stats"`
	History         []float64            `json:"temporal_history"`
}

// FrameSource supplies JPEG frames. A (nil, nil) result means the
// source is rate limited; the engine idles briefly and retries.
type FrameSource interface {
	CaptureFrame() ([]byte, error)
	Stats() capture.CaptureStats
	Close() error
}

// FaceLocator finds faces in a frame. An empty result is valid.
type FaceLocator interface {
	Locate(frame []byte) ([]detect.Face, error)
}

// FaceScorer predicts the fake probability of a face crop.
type FaceScorer interface {
	Predict(faceJPEG []byte) (score.Prediction, error)
}

// VerdictSink receives verdict events. Publishing is best-effort;
// errors are logged, never fatal.
type VerdictSink interface {
	Publish(event VerdictEvent) error
}

type noopSink struct{}

func (noopSink) Publish(VerdictEvent) error { return nil }

// Deps are the engine's collaborators.
type Deps struct {
	Source     FrameSource
	Locator    FaceLocator
	Scorer     FaceScorer
	Aggregator *temporal.Aggregator
	Provider   *explain.Provider
	Sink       VerdictSink // optional
}

func (d Deps) validate() error {
	if d.Source == nil {
		return fmt.Errorf("frame source is required")
	}
	if d.Locator == nil {
		return fmt.Errorf("face locator is required")
	}
	if d.Scorer == nil {
		return fmt.Errorf("face scorer is required")
	}
	if d.Aggregator == nil {
		return fmt.Errorf("temporal aggregator is required")
	}
	if d.Provider == nil {
		return fmt.Errorf("explanation provider is required")
	}
	return nil
}

// Engine runs the detection loop.
type Engine struct {
	cfg        Config
	source     FrameSource
	locator    FaceLocator
	scorer     FaceScorer
	sink       VerdictSink
	aggregator *temporal.Aggregator
	provider   *explain.Provider

	sessionID string
	logger    *slog.Logger

	mu      sync.Mutex
	state   *EngineState
	history []float64
	running bool
	stop    chan struct{}
	done    chan struct{}

	snapshots chan EngineState

	framesProcessed atomic.Int64
	closeSource     sync.Once

	// Loop-owned, no lock needed
	frameTimes       []time.Duration
	lastVerdictLevel confidence.Level
	hasVerdict       bool
}

// New builds an engine from config and collaborators. A nil Sink is
// replaced with a no-op.
func New(cfg Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("engine deps: %w", err)
	}

	sink := deps.Sink
	if sink == nil {
		sink = noopSink{}
	}

	sessionID := uuid.New().String()
	return &Engine{
		cfg:        cfg,
		source:     deps.Source,
		locator:    deps.Locator,
		scorer:     deps.Scorer,
		sink:       sink,
		aggregator: deps.Aggregator,
		provider:   deps.Provider,
		sessionID:  sessionID,
		logger:     log.With("session_id", sessionID),
		snapshots:  make(chan EngineState, 1),
	}, nil
}

// SessionID returns the identifier assigned at construction.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Running reports whether the loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// State returns a copy of the latest snapshot, or nil before the
// first iteration completes.
func (e *Engine) State() *EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil
	}
	st := *e.state
	return &st
}

// Snapshots exposes the single-slot state stream. Slow consumers see
// only the newest snapshot; intermediate ones are dropped.
func (e *Engine) Snapshots() <-chan EngineState {
	return e.snapshots
}

// Done returns a channel closed when the loop exits, either on Stop
// or when a finite source drains. Nil before the first Start.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Stats returns engine throughput statistics.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	history := e.history
	e.mu.Unlock()

	return Stats{
		SessionID:       e.sessionID,
		FramesProcessed: e.framesProcessed.Load(),
		Capture:         e.source.Stats(),
		History:         history,
	}
}
