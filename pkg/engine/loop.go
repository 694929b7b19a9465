package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/omtripathi52/deepguard/internal/metrics"
	"github.com/omtripathi52/deepguard/pkg/capture"
	"github.com/omtripathi52/deepguard/pkg/explain"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

// Start launches the background loop. Calling Start on a running
// engine is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	e.mu.Unlock()

	go e.run()
	e.logger.Info("engine started")
}

// Stop clears the running flag, waits up to StopTimeout for the loop
// to exit, then closes the capture source. A missed join is logged,
// not escalated.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stop)
	done := e.done
	e.mu.Unlock()

	select {
	case <-done:
	case <-time.After(e.cfg.StopTimeout):
		e.logger.Warn("engine loop did not exit before timeout")
	}

	e.shutSource()
	e.logger.Info("engine stopped", "frames_processed", e.framesProcessed.Load())
}

// shutSource closes the capture source exactly once, whether the loop
// drained it or Stop tore it down.
func (e *Engine) shutSource() {
	e.closeSource.Do(func() {
		if err := e.source.Close(); err != nil {
			e.logger.Warn("close capture source", "error", err)
		}
	})
}

// loopState carries values that live across iterations.
type loopState struct {
	lastExplanation time.Time
	explanation     *explain.Explanation
}

func (e *Engine) run() {
	defer close(e.done)

	ls := &loopState{}
	for {
		select {
		case <-e.stop:
			return
		default:
		}

		if err := e.iterate(ls); err != nil {
			if errors.Is(err, capture.ErrEOF) {
				e.finish()
				return
			}
			e.logger.Error("engine iteration failed", "error", err)
			if metrics.Enabled() {
				metrics.IterationErrors.Inc()
			}
			e.publish(EngineState{
				IsRunning: true,
				Status:    StatusError,
				SessionID: e.sessionID,
				Timestamp: time.Now(),
			})
			time.Sleep(e.cfg.ErrorBackoff)
		}
	}
}

// finish handles a drained finite source: the last verdict is carried
// into a terminal snapshot and the loop exits on its own.
func (e *Engine) finish() {
	prev := e.State()

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	e.shutSource()

	final := EngineState{
		Status:    StatusComplete,
		SessionID: e.sessionID,
		Timestamp: time.Now(),
	}
	if prev != nil {
		final.FacesDetected = prev.FacesDetected
		final.Temporal = prev.Temporal
		final.Explanation = prev.Explanation
		final.FPS = prev.FPS
	}
	e.publish(final)

	e.logger.Info("capture source drained", "frames_processed", e.framesProcessed.Load())
}

// iterate runs one pipeline pass. A nil return covers both processed
// frames and benign skips; errors go to the loop's handler.
func (e *Engine) iterate(ls *loopState) error {
	loopStart := time.Now()

	frame, err := e.source.CaptureFrame()
	if err != nil {
		return fmt.Errorf("capture frame: %w", err)
	}
	if frame == nil {
		time.Sleep(e.cfg.IdleSleep)
		return nil
	}

	faces, err := e.locator.Locate(frame)
	if err != nil {
		return fmt.Errorf("locate faces: %w", err)
	}

	if len(faces) == 0 {
		e.aggregator.Reset()
		e.storeHistory()
		e.publish(EngineState{
			IsRunning: true,
			FPS:       e.fps(loopStart),
			Status:    StatusNoFaces,
			SessionID: e.sessionID,
			Timestamp: time.Now(),
		})
		return nil
	}

	// Policy: score the first face the locator returned. Tracking
	// multiple faces at once is future work.
	face := faces[0]
	pred, err := e.scorer.Predict(face.Crop)
	if err != nil {
		return fmt.Errorf("score face: %w", err)
	}

	if metrics.Enabled() {
		metrics.FacesDetected.Set(float64(len(faces)))
		metrics.ScoreHistogram.Observe(pred.Score)
	}

	st := e.aggregator.AddScore(pred.Score)
	e.storeHistory()

	now := time.Now()
	if now.Sub(ls.lastExplanation) > e.cfg.ExplanationInterval && st.IsStable {
		exp := e.provider.Explain(context.Background(), st.Result, e.cfg.ContextLabel, st.Trend, st.FramesAnalyzed)
		ls.explanation = &exp
		ls.lastExplanation = now
	}

	e.maybeEmitVerdict(st)

	e.publish(EngineState{
		IsRunning:     true,
		FacesDetected: len(faces),
		Temporal:      &st,
		Explanation:   ls.explanation,
		FPS:           e.fps(loopStart),
		Status:        StatusRunning,
		SessionID:     e.sessionID,
		Timestamp:     now,
	})

	e.framesProcessed.Add(1)
	if metrics.Enabled() {
		metrics.FramesProcessed.Inc()
	}
	return nil
}

// publish stores the snapshot under the lock, then offers it to the
// single-slot channel outside the lock. When the slot is occupied the
// stale snapshot is dropped so the newest one always lands.
func (e *Engine) publish(st EngineState) {
	e.mu.Lock()
	e.state = &st
	e.mu.Unlock()

	select {
	case e.snapshots <- st:
	default:
		select {
		case <-e.snapshots:
		default:
		}
		select {
		case e.snapshots <- st:
		default:
		}
	}
}

// maybeEmitVerdict publishes a VerdictEvent when a stable verdict
// lands on a tier different from the last published one.
func (e *Engine) maybeEmitVerdict(st temporal.State) {
	if !st.IsStable {
		return
	}
	if e.hasVerdict && st.Result.Level == e.lastVerdictLevel {
		return
	}
	e.hasVerdict = true
	e.lastVerdictLevel = st.Result.Level

	event := VerdictEvent{
		SessionID:      e.sessionID,
		Level:          st.Result.Level,
		Score:          st.Result.Score,
		ConfidencePct:  st.Result.ConfidencePct,
		Trend:          st.Trend,
		FramesAnalyzed: st.FramesAnalyzed,
		Timestamp:      time.Now(),
	}

	if err := e.sink.Publish(event); err != nil {
		e.logger.Warn("verdict publish failed", "level", event.Level, "error", err)
		if metrics.Enabled() {
			metrics.VerdictPublishErrors.Inc()
		}
		return
	}
	if metrics.Enabled() {
		metrics.VerdictEventsPublished.Inc()
	}
}

func (e *Engine) storeHistory() {
	h := e.aggregator.History()
	e.mu.Lock()
	e.history = h
	e.mu.Unlock()
}

// fps appends the current iteration duration and returns the inverted
// mean over the last FPSWindow iterations, rounded to one decimal.
func (e *Engine) fps(loopStart time.Time) float64 {
	elapsed := time.Since(loopStart)
	e.frameTimes = append(e.frameTimes, elapsed)
	if len(e.frameTimes) > e.cfg.FPSWindow {
		e.frameTimes = e.frameTimes[len(e.frameTimes)-e.cfg.FPSWindow:]
	}

	var total time.Duration
	for _, d := range e.frameTimes {
		total += d
	}
	avg := total.Seconds() / float64(len(e.frameTimes))

	fps := math.Round(1.0/math.Max(avg, 0.001)*10) / 10
	if metrics.Enabled() {
		metrics.EngineFPS.Set(fps)
	}
	return fps
}
