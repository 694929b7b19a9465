package confidence

import (
	"math"
	"testing"
)

func floatEquals(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestClassify_Levels(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		name      string
		score     float64
		wantLevel Level
		wantPct   int
	}{
		{name: "clearly real", score: 0.05, wantLevel: LevelReal, wantPct: 95},
		{name: "likely real", score: 0.30, wantLevel: LevelLikelyReal, wantPct: 70},
		{name: "dead center uncertain", score: 0.50, wantLevel: LevelUncertain, wantPct: 50},
		{name: "low uncertain", score: 0.40, wantLevel: LevelUncertain, wantPct: 60},
		{name: "likely fake", score: 0.60, wantLevel: LevelLikelyFake, wantPct: 60},
		{name: "clearly fake", score: 0.90, wantLevel: LevelDeepfake, wantPct: 90},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.score)
			if got.Level != tc.wantLevel {
				t.Errorf("Classify(%v).Level: got %v, want %v", tc.score, got.Level, tc.wantLevel)
			}
			if got.ConfidencePct != tc.wantPct {
				t.Errorf("Classify(%v).ConfidencePct: got %d, want %d", tc.score, got.ConfidencePct, tc.wantPct)
			}
		})
	}
}

// Boundary values belong to the next bucket up because every
// comparison is a strict "<".
func TestClassify_Boundaries(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	tests := []struct {
		score float64
		want  Level
	}{
		{cfg.RealHigh, LevelLikelyReal},
		{cfg.RealLow, LevelUncertain},
		{cfg.UncertainHigh, LevelLikelyFake},
		{cfg.FakeLow, LevelDeepfake},
	}

	for _, tc := range tests {
		got := c.Classify(tc.score)
		if got.Level != tc.want {
			t.Errorf("Classify(%v).Level: got %v, want %v", tc.score, got.Level, tc.want)
		}
	}
}

// UncertainLow is carried in the config but no branch consults it, so
// moving it must not change any classification.
func TestClassify_UncertainLowUnused(t *testing.T) {
	def := New(DefaultConfig())

	moved := DefaultConfig()
	moved.UncertainLow = 0.54
	c := New(moved)

	for s := 0.0; s <= 1.0; s += 0.001 {
		got, want := c.Classify(s), def.Classify(s)
		if got.Level != want.Level {
			t.Fatalf("Classify(%v).Level: got %v, want %v after moving UncertainLow", s, got.Level, want.Level)
		}
		if got.ConfidencePct != want.ConfidencePct {
			t.Fatalf("Classify(%v).ConfidencePct: got %d, want %d after moving UncertainLow", s, got.ConfidencePct, want.ConfidencePct)
		}
	}
}

// The five buckets partition [0,1]: sweeping the range never yields an
// unknown level and levels never decrease as the score rises.
func TestClassify_Partition(t *testing.T) {
	c := New(DefaultConfig())

	prev := LevelReal
	for s := 0.0; s <= 1.0; s += 0.001 {
		got := c.Classify(s)
		if got.Level < LevelReal || got.Level > LevelDeepfake {
			t.Fatalf("Classify(%v): level %v out of range", s, got.Level)
		}
		if got.Level < prev {
			t.Fatalf("Classify(%v): level %v decreased from %v", s, got.Level, prev)
		}
		prev = got.Level
	}
}

func TestClassify_PctClamped(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{name: "perfect real clamps to 99", score: 0.0, want: 99},
		{name: "perfect fake clamps to 99", score: 1.0, want: 99},
		{name: "near perfect real clamps to 99", score: 0.001, want: 99},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.score)
			if got.ConfidencePct != tc.want {
				t.Errorf("Classify(%v).ConfidencePct: got %d, want %d", tc.score, got.ConfidencePct, tc.want)
			}
			if got.ConfidencePct < 1 || got.ConfidencePct > 99 {
				t.Errorf("Classify(%v).ConfidencePct: %d outside [1,99]", tc.score, got.ConfidencePct)
			}
		})
	}
}

func TestClassify_ScoreRounded(t *testing.T) {
	c := New(DefaultConfig())

	got := c.Classify(0.123456789)
	if !floatEquals(got.Score, 0.1235) {
		t.Errorf("Score: got %v, want 0.1235", got.Score)
	}
}

func TestClassify_Colors(t *testing.T) {
	cfg := DefaultConfig()
	c := New(cfg)

	tests := []struct {
		score float64
		want  string
	}{
		{0.1, cfg.Colors.Real},
		{0.3, cfg.Colors.LikelyReal},
		{0.5, cfg.Colors.Uncertain},
		{0.6, cfg.Colors.LikelyFake},
		{0.9, cfg.Colors.Deepfake},
	}

	for _, tc := range tests {
		got := c.Classify(tc.score)
		if got.Color != tc.want {
			t.Errorf("Classify(%v).Color: got %s, want %s", tc.score, got.Color, tc.want)
		}
	}
}

func TestDisplayText(t *testing.T) {
	c := New(DefaultConfig())

	real := c.Classify(0.05)
	if got, want := real.DisplayText(), "REAL  95%"; got != want {
		t.Errorf("DisplayText: got %q, want %q", got, want)
	}

	uncertain := c.Classify(0.5)
	if got, want := uncertain.DisplayText(), "UNCERTAIN  ~50%"; got != want {
		t.Errorf("DisplayText: got %q, want %q", got, want)
	}
}

func TestLevel_Emoji(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelReal, "🟢"},
		{LevelLikelyReal, "🟢"},
		{LevelUncertain, "🟡"},
		{LevelLikelyFake, "🟠"},
		{LevelDeepfake, "🔴"},
		{Level(99), "⚪"},
	}

	for _, tc := range tests {
		if got := tc.level.Emoji(); got != tc.want {
			t.Errorf("Emoji(%v): got %s, want %s", tc.level, got, tc.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should validate, got %v", err)
	}

	bad := DefaultConfig()
	bad.RealLow = 0.1 // below RealHigh
	if err := bad.Validate(); err == nil {
		t.Error("expected error for out-of-order thresholds")
	}
}
