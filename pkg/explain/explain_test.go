package explain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/narrative"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Selector = func(n int) int { return 0 }
	return cfg
}

func classify(t *testing.T, score float64) confidence.DetectionResult {
	t.Helper()
	return confidence.New(confidence.DefaultConfig()).Classify(score)
}

func TestExplain_PrimarySuccess(t *testing.T) {
	mock := narrative.NewMock()
	mock.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Generated text.", nil
	}
	p := New(testConfig(), mock)

	got := p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)
	if got.Source != SourcePrimary {
		t.Errorf("Source: got %v, want %v", got.Source, SourcePrimary)
	}
	if got.Text != "Generated text." {
		t.Errorf("Text: got %q", got.Text)
	}
	if got.Cached {
		t.Error("Cached: got true on first call")
	}
}

func TestExplain_CacheHitWithinTTL(t *testing.T) {
	p := New(testConfig(), narrative.NewMock())

	first := p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)
	second := p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)

	if first.Cached {
		t.Error("first call: Cached got true")
	}
	if !second.Cached {
		t.Error("second call: Cached got false, want true")
	}
	if first.Text != second.Text {
		t.Errorf("texts differ: %q vs %q", first.Text, second.Text)
	}
}

// Raw score and frame count are not part of the cache key, so frames
// with the same coarse verdict share one explanation.
func TestExplain_CacheKeyIsCoarse(t *testing.T) {
	mock := narrative.NewMock()
	p := New(testConfig(), mock)

	p.Explain(context.Background(), classify(t, 0.05), "video", temporal.TrendStable, 10)
	got := p.Explain(context.Background(), classify(t, 0.05000001), "video", temporal.TrendStable, 25)

	if !got.Cached {
		t.Error("same coarse signature: Cached got false, want true")
	}
	if mock.CallCount() != 1 {
		t.Errorf("generator calls: got %d, want 1", mock.CallCount())
	}

	// A different trend is a different signature
	other := p.Explain(context.Background(), classify(t, 0.05), "video", temporal.TrendRising, 10)
	if other.Cached {
		t.Error("different trend: Cached got true, want false")
	}
}

func TestExplain_CacheExpires(t *testing.T) {
	cfg := testConfig()
	cfg.CacheTTL = 50 * time.Millisecond
	p := New(cfg, narrative.NewMock())

	p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)
	time.Sleep(60 * time.Millisecond)
	got := p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)

	if got.Cached {
		t.Error("after TTL: Cached got true, want false")
	}
}

func TestExplain_DisabledGeneratorFallsBack(t *testing.T) {
	p := New(testConfig(), narrative.NewDisabled())

	for _, score := range []float64{0.1, 0.3, 0.5, 0.6, 0.9} {
		got := p.Explain(context.Background(), classify(t, score), "video", temporal.TrendStable, 10)
		if got.Source != SourceFallback {
			t.Errorf("score %v: Source: got %v, want %v", score, got.Source, SourceFallback)
		}
		if got.Text == "" {
			t.Errorf("score %v: empty fallback text", score)
		}
	}
}

func TestExplain_GeneratorErrorFallsBack(t *testing.T) {
	p := New(testConfig(), narrative.WithError(errors.New("quota exhausted")))

	got := p.Explain(context.Background(), classify(t, 0.9), "video", temporal.TrendStable, 10)
	if got.Source != SourceFallback {
		t.Errorf("Source: got %v, want %v", got.Source, SourceFallback)
	}
}

func TestExplain_EmptyResponseFallsBack(t *testing.T) {
	mock := narrative.NewMock()
	mock.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", nil
	}
	p := New(testConfig(), mock)

	got := p.Explain(context.Background(), classify(t, 0.9), "video", temporal.TrendStable, 10)
	if got.Source != SourceFallback {
		t.Errorf("Source: got %v, want %v", got.Source, SourceFallback)
	}
}

func TestExplain_SlowGeneratorTimesOut(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 30 * time.Millisecond
	mock := narrative.NewMock()
	mock.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "too late", nil
		}
	}
	p := New(cfg, mock)

	start := time.Now()
	got := p.Explain(context.Background(), classify(t, 0.9), "video", temporal.TrendStable, 10)
	if got.Source != SourceFallback {
		t.Errorf("Source: got %v, want %v", got.Source, SourceFallback)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Explain blocked for %v, want bounded by timeout", elapsed)
	}
}

func TestFallback_DeterministicWithInjectedSelector(t *testing.T) {
	cfg := testConfig()
	cfg.Selector = func(n int) int { return 1 }
	p := New(cfg, narrative.NewDisabled())

	got := p.Explain(context.Background(), classify(t, 0.05), "video", temporal.TrendStable, 12)
	want := "No manipulation detected. The video shows natural facial characteristics across 12 analyzed frames."
	if got.Text != want {
		t.Errorf("Text:\n got %q\nwant %q", got.Text, want)
	}
}

func TestFallback_TrendSuffix(t *testing.T) {
	tests := []struct {
		trend      temporal.Trend
		wantSuffix string
	}{
		{temporal.TrendRising, " Detection confidence is increasing."},
		{temporal.TrendFalling, " Detection confidence is decreasing."},
		{temporal.TrendStable, ""},
		{temporal.TrendAnalyzing, ""},
	}

	for _, tc := range tests {
		p := New(testConfig(), narrative.NewDisabled())
		got := p.Explain(context.Background(), classify(t, 0.9), "video", tc.trend, 10)

		if tc.wantSuffix == "" {
			if strings.HasSuffix(got.Text, "increasing.") || strings.HasSuffix(got.Text, "decreasing.") {
				t.Errorf("trend %v: unexpected suffix in %q", tc.trend, got.Text)
			}
			continue
		}
		if !strings.HasSuffix(got.Text, tc.wantSuffix) {
			t.Errorf("trend %v: got %q, want suffix %q", tc.trend, got.Text, tc.wantSuffix)
		}
	}
}

func TestFallback_TemplateCoverage(t *testing.T) {
	cl := confidence.New(confidence.DefaultConfig())

	for _, score := range []float64{0.1, 0.3, 0.5, 0.6, 0.9} {
		result := cl.Classify(score)
		templates := fallbackTemplates(result, "video", 10)
		if len(templates) < 2 {
			t.Errorf("level %v: got %d templates, want at least 2", result.Level, len(templates))
		}
	}
}

func TestClearCache(t *testing.T) {
	mock := narrative.NewMock()
	p := New(testConfig(), mock)

	p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)
	p.ClearCache()
	got := p.Explain(context.Background(), classify(t, 0.1), "video", temporal.TrendStable, 10)

	if got.Cached {
		t.Error("after ClearCache: Cached got true, want false")
	}
	if mock.CallCount() != 2 {
		t.Errorf("generator calls: got %d, want 2", mock.CallCount())
	}
}

func TestExplain_PromptCarriesVerdict(t *testing.T) {
	mock := narrative.NewMock()
	p := New(testConfig(), mock)

	p.Explain(context.Background(), classify(t, 0.05), "stream", temporal.TrendRising, 12)

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("generator calls: got %d, want 1", len(calls))
	}
	prompt := calls[0].Prompt
	for _, want := range []string{"Classification: REAL", "Content Type: stream", "Prediction Trend: rising", "Frames Analyzed: 12"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
