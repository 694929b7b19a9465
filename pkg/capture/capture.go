// Package capture provides JPEG frame sources for the detection
// pipeline: local camera, video file and remote websocket stream.
package capture

import (
	"errors"
	"math"
	"sync"
	"time"
)

// ErrEOF is returned by file sources when the video is exhausted.
var ErrEOF = errors.New("end of video")

// Source produces JPEG frames. CaptureFrame returns (nil, nil) when
// the source is rate limited or has nothing new; that is not an error.
type Source interface {
	CaptureFrame() ([]byte, error)
	Stats() CaptureStats
	Close() error
}

// CaptureStats describes source throughput.
type CaptureStats struct {
	FramesCaptured   int     `json:"frames_captured"`
	AvgCaptureTimeMS float64 `json:"avg_capture_time_ms"`
	TargetFPS        float64 `json:"target_fps"`
	ActualFPS        float64 `json:"actual_fps"`
}

// rateGate spaces captures at the target frame rate. Not safe for
// concurrent use; callers hold their own lock.
type rateGate struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func newRateGate(targetFPS float64) *rateGate {
	return &rateGate{
		interval: time.Duration(float64(time.Second) / targetFPS),
		now:      time.Now,
	}
}

// ready reports whether enough time has passed since the last capture,
// and consumes the tick when it has.
func (g *rateGate) ready() bool {
	t := g.now()
	if t.Sub(g.last) < g.interval {
		return false
	}
	g.last = t
	return true
}

// statsTracker keeps an exponential moving average of capture times.
type statsTracker struct {
	mu      sync.Mutex
	frames  int
	avgTime float64 // seconds
	target  float64
}

func newStatsTracker(targetFPS float64) *statsTracker {
	return &statsTracker{target: targetFPS}
}

func (s *statsTracker) record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avgTime = 0.9*s.avgTime + 0.1*d.Seconds()
	s.frames++
}

func (s *statsTracker) snapshot() CaptureStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CaptureStats{
		FramesCaptured:   s.frames,
		AvgCaptureTimeMS: math.Round(s.avgTime*1000*100) / 100,
		TargetFPS:        s.target,
		ActualFPS:        math.Round(1.0/math.Max(s.avgTime, 0.001)*10) / 10,
	}
}
