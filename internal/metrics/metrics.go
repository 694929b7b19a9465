// Package metrics exposes Prometheus collectors for the detection
// pipeline. Call Init once at startup. Components guard collector
// access with Enabled so the pipeline also runs without metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// Engine metrics
	FramesProcessed prometheus.Counter
	FacesDetected   prometheus.Gauge
	IterationErrors prometheus.Counter
	EngineFPS       prometheus.Gauge
	ScoreHistogram  prometheus.Histogram

	// Explanation metrics
	ExplanationRequests  *prometheus.CounterVec
	ExplanationCacheHit  prometheus.Counter
	ExplanationCacheMiss prometheus.Counter

	// Alert metrics
	VerdictEventsPublished prometheus.Counter
	VerdictPublishErrors   prometheus.Counter
)

// Init registers all collectors with a private registry.
// Safe to call more than once; only the first call registers.
func Init() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		FramesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepguard_frames_processed_total",
			Help: "Total number of frames scored by the engine",
		})

		FacesDetected = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deepguard_faces_detected",
			Help: "Faces located in the most recent frame",
		})

		IterationErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepguard_iteration_errors_total",
			Help: "Engine loop iterations that ended in an error",
		})

		EngineFPS = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "deepguard_engine_fps",
			Help: "Rolling frames-per-second of the engine loop",
		})

		ScoreHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "deepguard_raw_score",
			Help:    "Distribution of raw fake-probability scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		})

		ExplanationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deepguard_explanation_requests_total",
			Help: "Explanations produced, by source",
		}, []string{"source"})

		ExplanationCacheHit = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepguard_explanation_cache_hits_total",
			Help: "Explanation cache hits",
		})

		ExplanationCacheMiss = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepguard_explanation_cache_misses_total",
			Help: "Explanation cache misses",
		})

		VerdictEventsPublished = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepguard_verdict_events_published_total",
			Help: "Verdict change events published to the broker",
		})

		VerdictPublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deepguard_verdict_publish_errors_total",
			Help: "Failed verdict event publishes",
		})

		registry.MustRegister(
			FramesProcessed,
			FacesDetected,
			IterationErrors,
			EngineFPS,
			ScoreHistogram,
			ExplanationRequests,
			ExplanationCacheHit,
			ExplanationCacheMiss,
			VerdictEventsPublished,
			VerdictPublishErrors,
		)
	})
}

// Enabled reports whether Init has run.
func Enabled() bool {
	return registry != nil
}

// Handler returns the HTTP handler serving the registry.
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
