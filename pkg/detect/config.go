package detect

import "fmt"

// Config holds face locator configuration.
type Config struct {
	ModelPath      string  // Path to ONNX model
	ScoreThreshold float64 // Minimum detection confidence
	NMSThreshold   float64 // Non-max suppression threshold
	TopK           int     // Max candidates kept before NMS
	MinFaceSize    int     // Minimum face width/height in pixels
}

// DefaultConfig returns production defaults for YuNet.
func DefaultConfig() Config {
	return Config{
		ModelPath:      "models/face_detection_yunet.onnx",
		ScoreThreshold: 0.5,
		NMSThreshold:   0.3,
		TopK:           5000,
		MinFaceSize:    40,
	}
}

// Validate checks config values.
func (c Config) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("model path is required")
	}
	if c.ScoreThreshold <= 0 || c.ScoreThreshold >= 1 {
		return fmt.Errorf("score threshold must be in (0, 1), got %v", c.ScoreThreshold)
	}
	if c.NMSThreshold <= 0 || c.NMSThreshold >= 1 {
		return fmt.Errorf("nms threshold must be in (0, 1), got %v", c.NMSThreshold)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top k must be positive, got %d", c.TopK)
	}
	if c.MinFaceSize < 0 {
		return fmt.Errorf("min face size must be non-negative, got %d", c.MinFaceSize)
	}
	return nil
}
