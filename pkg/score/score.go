// Package score runs deepfake inference on cropped face images.
//
// The oracle wraps a Meso4-style ONNX classifier: input is a JPEG
// face crop, output is the probability that the face is synthetic.
package score

import "errors"

// ErrInvalidImage is returned when the input is not a decodable
// 3-channel color image.
var ErrInvalidImage = errors.New("invalid or empty face image")

// Labels assigned by Predict.
const (
	LabelReal     = "real"
	LabelDeepfake = "deepfake"
)

// Confidence bands assigned by Predict. Scores near the extremes are
// high confidence, scores near the decision boundary are low.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Prediction is the structured result of scoring one face.
type Prediction struct {
	Score      float64 `json:"score"`      // 0-1, higher = more likely fake
	Label      string  `json:"label"`      // "real" or "deepfake"
	Confidence string  `json:"confidence"` // "low", "medium" or "high"
}

func labelFor(score float64) string {
	if score >= 0.5 {
		return LabelDeepfake
	}
	return LabelReal
}

func bandFor(score float64) string {
	switch {
	case score >= 0.75 || score <= 0.25:
		return ConfidenceHigh
	case score >= 0.6 || score <= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
