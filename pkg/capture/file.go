package capture

import (
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// File reads JPEG frames sequentially from a video file. It is not
// rate gated; batch pipelines consume it as fast as they can.
type File struct {
	cap   *gocv.VideoCapture
	stats *statsTracker
	cfg   Config
	mu    sync.Mutex
}

var _ Source = (*File)(nil)

// OpenFile opens a video file for sequential reading.
func OpenFile(path string, cfg Config) (*File, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capture config: %w", err)
	}

	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}

	return &File{
		cap:   cap,
		stats: newStatsTracker(cfg.TargetFPS),
		cfg:   cfg,
	}, nil
}

// CaptureFrame returns the next frame as JPEG, or ErrEOF when the
// video is exhausted.
func (f *File) CaptureFrame() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()

	img := gocv.NewMat()
	defer img.Close()

	if ok := f.cap.Read(&img); !ok {
		return nil, ErrEOF
	}
	if img.Empty() {
		return nil, ErrEOF
	}

	frame, err := encodeJPEG(img, f.cfg.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	f.stats.record(time.Since(start))
	return frame, nil
}

// FrameCount returns the total number of frames the container reports.
func (f *File) FrameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int(f.cap.Get(gocv.VideoCaptureFrameCount))
}

// Stats returns read throughput statistics.
func (f *File) Stats() CaptureStats {
	return f.stats.snapshot()
}

// Close releases the file handle.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cap.Close()
}
