package capture

import (
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Camera captures rate-gated JPEG frames from a local video device.
type Camera struct {
	cap   *gocv.VideoCapture
	gate  *rateGate
	stats *statsTracker
	cfg   Config
	mu    sync.Mutex
}

var _ Source = (*Camera)(nil)

// OpenCamera opens the configured device.
func OpenCamera(cfg Config) (*Camera, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("capture config: %w", err)
	}

	cap, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", cfg.Device, err)
	}

	if cfg.Width > 0 {
		cap.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		cap.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	return &Camera{
		cap:   cap,
		gate:  newRateGate(cfg.TargetFPS),
		stats: newStatsTracker(cfg.TargetFPS),
		cfg:   cfg,
	}, nil
}

// CaptureFrame grabs the next frame as JPEG. Between rate-gate ticks
// it returns (nil, nil).
func (c *Camera) CaptureFrame() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gate.ready() {
		return nil, nil
	}

	start := time.Now()

	img := gocv.NewMat()
	defer img.Close()

	if ok := c.cap.Read(&img); !ok {
		return nil, fmt.Errorf("camera %d read failed", c.cfg.Device)
	}
	if img.Empty() {
		return nil, fmt.Errorf("camera %d returned empty frame", c.cfg.Device)
	}

	frame, err := encodeJPEG(img, c.cfg.JPEGQuality)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	c.stats.record(time.Since(start))
	return frame, nil
}

// Stats returns capture throughput statistics.
func (c *Camera) Stats() CaptureStats {
	return c.stats.snapshot()
}

// Close releases the device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cap.Close()
}

func encodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
