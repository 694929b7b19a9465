// Package temporal smooths per-frame detection scores over a sliding
// window so the published verdict does not flicker frame to frame.
// It applies a decay-weighted average, tracks rising/falling trends,
// and detects when the prediction has stabilized.
package temporal

import (
	"math"
	"time"

	"github.com/omtripathi52/deepguard/pkg/confidence"
)

// Trend describes the short-horizon direction of recent scores.
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendFalling   Trend = "falling"
	TrendStable    Trend = "stable"
	TrendAnalyzing Trend = "analyzing"
)

const (
	// minSamples is how many frames are needed before smoothing.
	minSamples = 3

	// trendSpan is how many recent frames form each trend window.
	trendSpan = 5

	// trendThreshold is the mean difference that counts as a trend.
	trendThreshold = 0.1

	// stableFramesNeeded is how many consecutive small changes mark
	// the prediction as stable.
	stableFramesNeeded = 5
)

// State is the temporal analysis result for one accepted score.
// States are snapshots; they are never mutated after return.
type State struct {
	RawScore       float64                    `json:"raw_score"`
	SmoothedScore  float64                    `json:"smoothed_score"`
	Result         confidence.DetectionResult `json:"result"`
	IsStable       bool                       `json:"is_stable"`
	Trend          Trend                      `json:"trend"`
	FramesAnalyzed int                        `json:"frames_analyzed"`
	Timestamp      time.Time                  `json:"timestamp"`
}

// Aggregator maintains the sliding score window and derives smoothed
// state from it. It is not safe for concurrent use; a single owner
// (the engine loop) drives it.
type Aggregator struct {
	cfg        Config
	classifier *confidence.Classifier

	buffer  []float64
	weights []float64 // weights[i] = decay^(W-1-i), oldest first

	lastSmoothed      float64
	hasSmoothed       bool
	lastResult        *confidence.DetectionResult
	lastDisplayUpdate time.Time
	framesSinceChange int
}

// New creates an aggregator with the given config and classifier.
func New(cfg Config, classifier *confidence.Classifier) *Aggregator {
	a := &Aggregator{
		cfg:        cfg,
		classifier: classifier,
		buffer:     make([]float64, 0, cfg.WindowSize),
	}
	a.precomputeWeights()
	return a
}

// precomputeWeights builds the exponential decay weight vector once.
// More recent frames (higher index) get higher weight.
func (a *Aggregator) precomputeWeights() {
	a.weights = make([]float64, a.cfg.WindowSize)
	for i := range a.weights {
		a.weights[i] = math.Pow(a.cfg.DecayFactor, float64(a.cfg.WindowSize-1-i))
	}
}

// AddScore appends a new frame score and returns the updated state.
// Below minSamples frames it returns an interim "analyzing" state
// built from the raw score alone.
func (a *Aggregator) AddScore(score float64) State {
	a.buffer = append(a.buffer, score)
	if len(a.buffer) > a.cfg.WindowSize {
		a.buffer = a.buffer[1:]
	}

	if len(a.buffer) < minSamples {
		return State{
			RawScore:       score,
			SmoothedScore:  score,
			Result:         a.classifier.Classify(score),
			IsStable:       false,
			Trend:          TrendAnalyzing,
			FramesAnalyzed: len(a.buffer),
			Timestamp:      time.Now(),
		}
	}

	// Weighted average over the window, using the trailing weights
	// normalized to sum to 1.
	weights := a.weights[a.cfg.WindowSize-len(a.buffer):]
	var weightSum float64
	for _, w := range weights {
		weightSum += w
	}
	var smoothed float64
	for i, s := range a.buffer {
		smoothed += s * weights[i] / weightSum
	}

	trend := a.computeTrend()
	isStable := a.checkStability(smoothed)

	result := a.classifier.Classify(smoothed)
	result.IsStable = isStable

	a.lastSmoothed = smoothed
	a.hasSmoothed = true
	a.lastResult = &result

	return State{
		RawScore:       score,
		SmoothedScore:  smoothed,
		Result:         result,
		IsStable:       isStable,
		Trend:          trend,
		FramesAnalyzed: len(a.buffer),
		Timestamp:      time.Now(),
	}
}

// computeTrend compares the mean of the last trendSpan raw scores to
// the mean of the span before it (or all earlier scores when fewer
// than two full spans exist).
func (a *Aggregator) computeTrend() Trend {
	n := len(a.buffer)
	if n < trendSpan {
		return TrendAnalyzing
	}

	recent := mean(a.buffer[n-trendSpan:])
	var older float64
	if n >= 2*trendSpan {
		older = mean(a.buffer[n-2*trendSpan : n-trendSpan])
	} else {
		older = mean(a.buffer[:n-trendSpan])
	}

	diff := recent - older
	switch {
	case diff > trendThreshold:
		return TrendRising
	case diff < -trendThreshold:
		return TrendFalling
	default:
		return TrendStable
	}
}

// checkStability counts consecutive frames whose smoothed score moved
// less than the stability threshold.
func (a *Aggregator) checkStability(smoothed float64) bool {
	if !a.hasSmoothed {
		return false
	}

	if math.Abs(smoothed-a.lastSmoothed) < a.cfg.StabilityThreshold {
		a.framesSinceChange++
	} else {
		a.framesSinceChange = 0
	}

	return a.framesSinceChange >= stableFramesNeeded
}

// ShouldUpdateDisplay reports whether the given state warrants a
// display refresh: always on the first update, on a level change, on a
// significant score change, or when DisplayInterval has elapsed since
// the last accepted refresh (which advances the throttle timestamp).
func (a *Aggregator) ShouldUpdateDisplay(state State) bool {
	if a.lastResult == nil {
		return true
	}

	if state.Result.Level != a.lastResult.Level {
		return true
	}

	if math.Abs(state.SmoothedScore-a.lastSmoothed) > a.cfg.StabilityThreshold {
		return true
	}

	if time.Since(a.lastDisplayUpdate) > a.cfg.DisplayInterval {
		a.lastDisplayUpdate = time.Now()
		return true
	}

	return false
}

// Reset clears the window and counters, e.g. when no faces are
// present. The aggregator behaves as freshly constructed afterwards.
func (a *Aggregator) Reset() {
	a.buffer = a.buffer[:0]
	a.lastSmoothed = 0
	a.hasSmoothed = false
	a.lastResult = nil
	a.framesSinceChange = 0
}

// History returns a copy of the raw score window for visualization.
func (a *Aggregator) History() []float64 {
	out := make([]float64, len(a.buffer))
	copy(out, a.buffer)
	return out
}

// StabilityInfo returns a human-readable stability status.
func (a *Aggregator) StabilityInfo() string {
	if len(a.buffer) < minSamples {
		return "Analyzing..."
	}
	if a.lastResult == nil || !a.lastResult.IsStable {
		return "Stabilizing..."
	}
	return "Stable"
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
