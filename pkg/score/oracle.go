package score

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Oracle scores face crops with an ONNX deepfake classifier.
type Oracle struct {
	net gocv.Net
	cfg Config
	mu  sync.Mutex // Protects inference
}

// New loads the ONNX model and returns a ready Oracle.
func New(cfg Config) (*Oracle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("score config: %w", err)
	}
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &Oracle{
		net: net,
		cfg: cfg,
	}, nil
}

// Predict scores a single JPEG face crop. The score is the fake
// probability rounded to 4 decimals; label and confidence band are
// derived from it. Invalid input returns ErrInvalidImage.
func (o *Oracle) Predict(faceJPEG []byte) (Prediction, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	img, err := decodeFace(faceJPEG)
	if err != nil {
		return Prediction{}, err
	}
	defer img.Close()

	// Resize to model input, scale to [0, 1], BGR to RGB, batch of one
	size := image.Pt(o.cfg.InputSize, o.cfg.InputSize)
	blob := gocv.BlobFromImage(img, 1.0/255.0, size, gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	o.net.SetInput(blob, "")

	out := o.net.Forward("")
	defer out.Close()

	score := float64(out.GetFloatAt(0, 0))
	score = math.Round(score*10000) / 10000

	return Prediction{
		Score:      score,
		Label:      labelFor(score),
		Confidence: bandFor(score),
	}, nil
}

// Close releases the model resources.
func (o *Oracle) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.net.Close()
	return nil
}

// decodeFace decodes and validates a face crop. The caller owns the
// returned Mat.
func decodeFace(faceJPEG []byte) (gocv.Mat, error) {
	if len(faceJPEG) == 0 {
		return gocv.Mat{}, ErrInvalidImage
	}

	img, err := gocv.IMDecode(faceJPEG, gocv.IMReadColor)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, ErrInvalidImage
	}
	if img.Channels() != 3 {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("%w: expected 3 channels, got %d", ErrInvalidImage, img.Channels())
	}
	return img, nil
}
