package confidence

import (
	"fmt"
	"math"
)

// DetectionResult is a single classified score.
type DetectionResult struct {
	Score         float64 `json:"score"`          // raw model score, rounded to 4 decimals
	Level         Level   `json:"level"`          // classified confidence level
	ConfidencePct int     `json:"confidence_pct"` // display percentage, always within [1,99]
	Color         string  `json:"color"`          // display color hex
	IsStable      bool    `json:"is_stable"`      // whether the prediction has settled
}

// DisplayText returns the formatted verdict line for overlays and logs.
func (r DetectionResult) DisplayText() string {
	if r.Level == LevelUncertain {
		return fmt.Sprintf("%s  ~%d%%", r.Level, r.ConfidencePct)
	}
	return fmt.Sprintf("%s  %d%%", r.Level, r.ConfidencePct)
}

// Classifier maps scalar scores to confidence levels.
// Classify is a pure function; the classifier is safe to share.
type Classifier struct {
	cfg Config
}

// New creates a classifier with the given thresholds.
func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify converts a model score (0-1, higher = more likely fake) into
// a DetectionResult. Buckets are checked in order with strict "<";
// UncertainLow is intentionally never consulted here.
func (c *Classifier) Classify(score float64) DetectionResult {
	var (
		level Level
		pct   int
	)

	switch {
	case score < c.cfg.RealHigh:
		level = LevelReal
		// Confidence in "real" is the inverse of the fake score
		pct = int(math.Round((1 - score) * 100))
	case score < c.cfg.RealLow:
		level = LevelLikelyReal
		pct = int(math.Round((1 - score) * 100))
	case score < c.cfg.UncertainHigh:
		level = LevelUncertain
		// For uncertain, show closeness to 50%
		pct = int(math.Round(50 + math.Abs(0.5-score)*100))
	case score < c.cfg.FakeLow:
		level = LevelLikelyFake
		pct = int(math.Round(score * 100))
	default:
		level = LevelDeepfake
		pct = int(math.Round(score * 100))
	}

	if pct < 1 {
		pct = 1
	}
	if pct > 99 {
		pct = 99
	}

	return DetectionResult{
		Score:         math.Round(score*10000) / 10000,
		Level:         level,
		ConfidencePct: pct,
		Color:         c.cfg.Color(level),
		IsStable:      true,
	}
}
