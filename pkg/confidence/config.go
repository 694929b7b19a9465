// Package confidence converts raw model scores into 5-tier verdicts
// with display percentages and colors.
package confidence

import "fmt"

// Config holds the classification thresholds and display colors.
// Thresholds are upper bounds checked in order with strict "<",
// so a score equal to a threshold lands in the next bucket up.
type Config struct {
	RealHigh      float64 `json:"real_high"`      // below this: REAL
	RealLow       float64 `json:"real_low"`       // below this: LIKELY REAL
	UncertainLow  float64 `json:"uncertain_low"`  // configured but not consulted, kept for config compatibility
	UncertainHigh float64 `json:"uncertain_high"` // below this: UNCERTAIN
	FakeLow       float64 `json:"fake_low"`       // below this: LIKELY FAKE, else DEEPFAKE

	Colors Colors `json:"colors"`
}

// Colors maps each level to a display hex color.
type Colors struct {
	Real       string `json:"real"`
	LikelyReal string `json:"likely_real"`
	Uncertain  string `json:"uncertain"`
	LikelyFake string `json:"likely_fake"`
	Deepfake   string `json:"deepfake"`
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		RealHigh:      0.20,
		RealLow:       0.35,
		UncertainLow:  0.45,
		UncertainHigh: 0.55,
		FakeLow:       0.65,
		Colors: Colors{
			Real:       "#22C55E",
			LikelyReal: "#84CC16",
			Uncertain:  "#EAB308",
			LikelyFake: "#F97316",
			Deepfake:   "#EF4444",
		},
	}
}

// Validate checks that the thresholds are ordered and in (0,1).
func (c Config) Validate() error {
	thresholds := []float64{c.RealHigh, c.RealLow, c.UncertainHigh, c.FakeLow}
	prev := 0.0
	for _, t := range thresholds {
		if t <= prev || t >= 1 {
			return fmt.Errorf("thresholds must be strictly increasing within (0,1), got %v", thresholds)
		}
		prev = t
	}
	return nil
}

// Color returns the configured color for a level.
func (c Config) Color(l Level) string {
	switch l {
	case LevelReal:
		return c.Colors.Real
	case LevelLikelyReal:
		return c.Colors.LikelyReal
	case LevelUncertain:
		return c.Colors.Uncertain
	case LevelLikelyFake:
		return c.Colors.LikelyFake
	case LevelDeepfake:
		return c.Colors.Deepfake
	}
	return c.Colors.Uncertain
}
