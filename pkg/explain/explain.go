// Package explain turns detection verdicts into human-readable text.
// Text comes from a remote narrative generator when one is configured
// and responding; any failure degrades to deterministic templates.
// Results are cached by coarse verdict signature to avoid API spam.
package explain

import (
	"context"
	"fmt"
	"time"

	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/internal/metrics"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/narrative"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

// Source identifies where an explanation came from.
type Source string

const (
	// SourcePrimary marks text from the narrative generator.
	SourcePrimary Source = "primary"
	// SourceFallback marks text from the built-in templates.
	SourceFallback Source = "fallback"
)

// Explanation is a human-readable account of a verdict.
type Explanation struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
	Cached bool   `json:"cached"`
}

type cacheEntry struct {
	explanation Explanation
	storedAt    time.Time
}

// Provider generates and caches explanations. It assumes a single
// owning caller; concurrent use requires external synchronization.
type Provider struct {
	cfg       Config
	generator narrative.Generator
	cache     map[string]cacheEntry
}

// New creates a provider backed by the given generator. Pass
// narrative.NewDisabled() when no remote service is configured.
func New(cfg Config, generator narrative.Generator) *Provider {
	if cfg.Selector == nil {
		cfg.Selector = DefaultConfig().Selector
	}
	return &Provider{
		cfg:       cfg,
		generator: generator,
		cache:     make(map[string]cacheEntry),
	}
}

// Explain produces text for a detection result. The cache key is the
// coarse (level, confidence, trend) signature, so repeated frames with
// the same verdict reuse one explanation until the TTL passes.
func (p *Provider) Explain(ctx context.Context, result confidence.DetectionResult, contextLabel string, trend temporal.Trend, framesAnalyzed int) Explanation {
	key := fmt.Sprintf("%s_%d_%s", result.Level, result.ConfidencePct, trend)

	if cached, ok := p.lookup(key); ok {
		if metrics.Enabled() {
			metrics.ExplanationCacheHit.Inc()
		}
		return cached
	}
	if metrics.Enabled() {
		metrics.ExplanationCacheMiss.Inc()
	}

	explanation, err := p.generate(ctx, result, contextLabel, trend, framesAnalyzed)
	if err != nil {
		log.Debug("narrative generation failed, using fallback",
			"generator", p.generator.Name(), "error", err)
		explanation = p.fallback(result, contextLabel, trend, framesAnalyzed)
	}

	if metrics.Enabled() {
		metrics.ExplanationRequests.WithLabelValues(string(explanation.Source)).Inc()
	}
	p.cache[key] = cacheEntry{explanation: explanation, storedAt: time.Now()}
	return explanation
}

// generate asks the narrative generator with a bounded timeout.
func (p *Provider) generate(ctx context.Context, result confidence.DetectionResult, contextLabel string, trend temporal.Trend, framesAnalyzed int) (Explanation, error) {
	gctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	text, err := p.generator.Generate(gctx, buildPrompt(result, contextLabel, trend, framesAnalyzed))
	if err != nil {
		return Explanation{}, err
	}
	if text == "" {
		return Explanation{}, narrative.ErrEmptyResponse
	}

	return Explanation{Text: text, Source: SourcePrimary}, nil
}

// lookup returns a valid cached entry marked cached=true, expiring
// stale entries as a side effect.
func (p *Provider) lookup(key string) (Explanation, bool) {
	entry, ok := p.cache[key]
	if !ok {
		return Explanation{}, false
	}
	if time.Since(entry.storedAt) > p.cfg.CacheTTL {
		delete(p.cache, key)
		return Explanation{}, false
	}

	explanation := entry.explanation
	explanation.Cached = true
	return explanation, true
}

// ClearCache empties the cache unconditionally.
func (p *Provider) ClearCache() {
	p.cache = make(map[string]cacheEntry)
}
