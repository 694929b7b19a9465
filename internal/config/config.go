package config

import (
	"github.com/omtripathi52/deepguard/pkg/capture"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/detect"
	"github.com/omtripathi52/deepguard/pkg/engine"
	"github.com/omtripathi52/deepguard/pkg/explain"
	"github.com/omtripathi52/deepguard/pkg/score"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

// Narrative holds settings for the remote explanation capability.
type Narrative struct {
	APIKey  string
	Model   string
	Enabled bool
}

// Dashboard holds web observer settings.
type Dashboard struct {
	Addr    string
	Enabled bool
}

// Alerts holds AMQP verdict publishing settings. An empty URL
// disables publishing.
type Alerts struct {
	URL        string
	Exchange   string
	RoutingKey string
}

// App is the aggregated runtime configuration.
type App struct {
	LogLevel   string
	Capture    capture.Config
	Detect     detect.Config
	Score      score.Config
	Temporal   temporal.Config
	Confidence confidence.Config
	Explain    explain.Config
	Engine     engine.Config
	Narrative  Narrative
	Dashboard  Dashboard
	Alerts     Alerts
}

// Load builds the application config from package defaults plus
// environment overrides. Commands load .env first via godotenv.
func Load() App {
	cap := capture.DefaultConfig()
	cap.Device = Int("DEEPGUARD_CAMERA_DEVICE", cap.Device)
	cap.TargetFPS = Float("DEEPGUARD_TARGET_FPS", cap.TargetFPS)
	cap.JPEGQuality = Int("DEEPGUARD_JPEG_QUALITY", cap.JPEGQuality)
	cap.StreamURL = Env("DEEPGUARD_STREAM_URL", "")

	det := detect.DefaultConfig()
	det.ModelPath = Env("DEEPGUARD_FACE_MODEL", det.ModelPath)
	det.MinFaceSize = Int("DEEPGUARD_MIN_FACE_SIZE", det.MinFaceSize)

	sc := score.DefaultConfig()
	sc.ModelPath = Env("DEEPGUARD_SCORE_MODEL", sc.ModelPath)

	tmp := temporal.DefaultConfig()
	tmp.WindowSize = Int("DEEPGUARD_WINDOW_SIZE", tmp.WindowSize)

	exp := explain.DefaultConfig()
	exp.CacheTTL = Duration("DEEPGUARD_EXPLAIN_CACHE_TTL", exp.CacheTTL)
	exp.Timeout = Duration("DEEPGUARD_EXPLAIN_TIMEOUT", exp.Timeout)

	eng := engine.DefaultConfig()
	eng.ExplanationInterval = Duration("DEEPGUARD_EXPLANATION_INTERVAL", eng.ExplanationInterval)

	return App{
		LogLevel:   Env("DEEPGUARD_LOG_LEVEL", "info"),
		Capture:    cap,
		Detect:     det,
		Score:      sc,
		Temporal:   tmp,
		Confidence: confidence.DefaultConfig(),
		Explain:    exp,
		Engine:     eng,
		Narrative: Narrative{
			APIKey:  Env("GEMINI_API_KEY", ""),
			Model:   Env("DEEPGUARD_GEMINI_MODEL", "gemini-2.0-flash-exp"),
			Enabled: Bool("DEEPGUARD_GEMINI_ENABLED", true),
		},
		Dashboard: Dashboard{
			Addr:    Env("DEEPGUARD_DASHBOARD_ADDR", ":8090"),
			Enabled: Bool("DEEPGUARD_DASHBOARD_ENABLED", true),
		},
		Alerts: Alerts{
			URL:        Env("DEEPGUARD_AMQP_URL", ""),
			Exchange:   Env("DEEPGUARD_AMQP_EXCHANGE", "deepguard.events"),
			RoutingKey: Env("DEEPGUARD_AMQP_ROUTING_KEY", "verdicts"),
		},
	}
}
