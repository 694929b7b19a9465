package detect

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/omtripathi52/deepguard/internal/log"
)

// YuNet locates faces using OpenCV's FaceDetectorYN.
type YuNet struct {
	detector gocv.FaceDetectorYN
	cfg      Config
	mu       sync.Mutex // Protects inference
}

var _ Locator = (*YuNet)(nil)

// NewYuNet creates a YuNet face locator from the configured ONNX model.
func NewYuNet(cfg Config) (*YuNet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("detect config: %w", err)
	}
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	// Input size is updated per-frame in Locate
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"", // No config file needed for ONNX
		image.Pt(320, 320),
		float32(cfg.ScoreThreshold),
		float32(cfg.NMSThreshold),
		cfg.TopK,
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &YuNet{
		detector: detector,
		cfg:      cfg,
	}, nil
}

// Locate finds faces in the JPEG frame. Faces smaller than
// MinFaceSize in either dimension are dropped. Each returned face
// carries a JPEG crop clipped to the frame bounds.
func (d *YuNet) Locate(frame []byte) ([]Face, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	imgW := img.Cols()
	imgH := img.Rows()
	bounds := image.Rect(0, 0, imgW, imgH)

	d.detector.SetInputSize(image.Pt(imgW, imgH))

	out := gocv.NewMat()
	defer out.Close()

	d.detector.Detect(img, &out)

	// YuNet output format (15 columns):
	// 0-3: x, y, w, h (bounding box in pixels)
	// 4-13: 5 facial landmarks (x,y pairs)
	// 14: face score
	var faces []Face
	for r := 0; r < out.Rows(); r++ {
		x := int(out.GetFloatAt(r, 0))
		y := int(out.GetFloatAt(r, 1))
		w := int(out.GetFloatAt(r, 2))
		h := int(out.GetFloatAt(r, 3))
		score := float64(out.GetFloatAt(r, 14))

		if w < d.cfg.MinFaceSize || h < d.cfg.MinFaceSize {
			continue
		}

		rect := image.Rect(x, y, x+w, y+h).Intersect(bounds)
		if rect.Empty() {
			continue
		}

		crop, err := encodeCrop(img, rect)
		if err != nil {
			return nil, fmt.Errorf("encode crop: %w", err)
		}

		faces = append(faces, Face{
			Region: Region{
				X: float64(rect.Min.X) / float64(imgW),
				Y: float64(rect.Min.Y) / float64(imgH),
				W: float64(rect.Dx()) / float64(imgW),
				H: float64(rect.Dy()) / float64(imgH),
			},
			Confidence: score,
			Crop:       crop,
		})
	}

	if len(faces) > 0 {
		log.Debug("faces located", "count", len(faces))
	}

	return faces, nil
}

// Close releases the detector resources.
func (d *YuNet) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

func encodeCrop(img gocv.Mat, rect image.Rectangle) ([]byte, error) {
	region := img.Region(rect)
	defer region.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, region)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	// The native buffer is freed on Close, copy out first
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}
