package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "hello")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_FLOAT", "2.5")
	t.Setenv("TEST_BOOL", "false")
	t.Setenv("TEST_DUR", "30s")
	t.Setenv("TEST_BAD_INT", "not a number")

	if got := Env("TEST_STR", "def"); got != "hello" {
		t.Errorf("Env: got %q, want hello", got)
	}
	if got := Env("TEST_UNSET", "def"); got != "def" {
		t.Errorf("Env unset: got %q, want def", got)
	}
	if got := Int("TEST_INT", 1); got != 42 {
		t.Errorf("Int: got %d, want 42", got)
	}
	if got := Int("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("Int invalid: got %d, want 7", got)
	}
	if got := Float("TEST_FLOAT", 1.0); got != 2.5 {
		t.Errorf("Float: got %v, want 2.5", got)
	}
	if got := Bool("TEST_BOOL", true); got != false {
		t.Errorf("Bool: got %v, want false", got)
	}
	if got := Duration("TEST_DUR", time.Second); got != 30*time.Second {
		t.Errorf("Duration: got %v, want 30s", got)
	}
	if got := Duration("TEST_UNSET", time.Second); got != time.Second {
		t.Errorf("Duration unset: got %v, want 1s", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	app := Load()

	if app.LogLevel != "info" {
		t.Errorf("log level: got %q, want info", app.LogLevel)
	}
	if app.Capture.TargetFPS != 10 {
		t.Errorf("target fps: got %v, want 10", app.Capture.TargetFPS)
	}
	if app.Temporal.WindowSize != 30 {
		t.Errorf("window size: got %d, want 30", app.Temporal.WindowSize)
	}
	if app.Narrative.Model != "gemini-2.0-flash-exp" {
		t.Errorf("gemini model: got %q", app.Narrative.Model)
	}
	if !app.Narrative.Enabled {
		t.Error("narrative: got disabled, want enabled by default")
	}
	if app.Alerts.URL != "" {
		t.Errorf("amqp url: got %q, want empty", app.Alerts.URL)
	}
	if err := app.Capture.Validate(); err != nil {
		t.Errorf("capture config invalid: %v", err)
	}
	if err := app.Temporal.Validate(); err != nil {
		t.Errorf("temporal config invalid: %v", err)
	}
	if err := app.Confidence.Validate(); err != nil {
		t.Errorf("confidence config invalid: %v", err)
	}
	if err := app.Engine.Validate(); err != nil {
		t.Errorf("engine config invalid: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEEPGUARD_LOG_LEVEL", "debug")
	t.Setenv("DEEPGUARD_TARGET_FPS", "5")
	t.Setenv("DEEPGUARD_WINDOW_SIZE", "60")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DEEPGUARD_GEMINI_ENABLED", "false")
	t.Setenv("DEEPGUARD_EXPLAIN_CACHE_TTL", "10s")
	t.Setenv("DEEPGUARD_STREAM_URL", "ws://example.com/feed")
	t.Setenv("DEEPGUARD_EXPLANATION_INTERVAL", "7s")

	app := Load()

	if app.LogLevel != "debug" {
		t.Errorf("log level: got %q, want debug", app.LogLevel)
	}
	if app.Capture.TargetFPS != 5 {
		t.Errorf("target fps: got %v, want 5", app.Capture.TargetFPS)
	}
	if app.Temporal.WindowSize != 60 {
		t.Errorf("window size: got %d, want 60", app.Temporal.WindowSize)
	}
	if app.Narrative.APIKey != "test-key" {
		t.Errorf("api key: got %q", app.Narrative.APIKey)
	}
	if app.Narrative.Enabled {
		t.Error("narrative: got enabled, want disabled")
	}
	if app.Explain.CacheTTL != 10*time.Second {
		t.Errorf("cache ttl: got %v, want 10s", app.Explain.CacheTTL)
	}
	if app.Capture.StreamURL != "ws://example.com/feed" {
		t.Errorf("stream url: got %q", app.Capture.StreamURL)
	}
	if app.Engine.ExplanationInterval != 7*time.Second {
		t.Errorf("explanation interval: got %v, want 7s", app.Engine.ExplanationInterval)
	}
}
