package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omtripathi52/deepguard/internal/config"
	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/internal/metrics"
	"github.com/omtripathi52/deepguard/pkg/alerts"
	"github.com/omtripathi52/deepguard/pkg/capture"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/dashboard"
	"github.com/omtripathi52/deepguard/pkg/detect"
	"github.com/omtripathi52/deepguard/pkg/engine"
	"github.com/omtripathi52/deepguard/pkg/explain"
	"github.com/omtripathi52/deepguard/pkg/narrative"
	"github.com/omtripathi52/deepguard/pkg/score"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the live detection engine with the web dashboard",
	Long: `Captures frames from a camera, WebSocket stream or video file,
locates faces, scores them and serves smoothed verdicts over the
dashboard. Configuration comes from the environment (.env is loaded
when present); flags override it.`,
	RunE: runRun,
}

var (
	runDevice      int
	runStreamURL   string
	runVideoPath   string
	runAddr        string
	runNoDashboard bool
)

func init() {
	runCmd.Flags().IntVar(&runDevice, "device", -1, "Camera device index (overrides DEEPGUARD_CAMERA_DEVICE)")
	runCmd.Flags().StringVar(&runStreamURL, "stream", "", "WebSocket frame stream URL (overrides DEEPGUARD_STREAM_URL)")
	runCmd.Flags().StringVar(&runVideoPath, "video", "", "Video file to analyze instead of a camera")
	runCmd.Flags().StringVar(&runAddr, "addr", "", "Dashboard listen address (overrides DEEPGUARD_DASHBOARD_ADDR)")
	runCmd.Flags().BoolVar(&runNoDashboard, "no-dashboard", false, "Disable the web dashboard")
}

func runRun(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg := config.Load()
	log.Init(cfg.LogLevel)
	metrics.Init()

	if runDevice >= 0 {
		cfg.Capture.Device = runDevice
	}
	if runStreamURL != "" {
		cfg.Capture.StreamURL = runStreamURL
	}
	if runAddr != "" {
		cfg.Dashboard.Addr = runAddr
	}
	if runNoDashboard {
		cfg.Dashboard.Enabled = false
	}

	source, label, err := openSource(cfg.Capture)
	if err != nil {
		return err
	}
	cfg.Engine.ContextLabel = label

	locator, err := detect.NewYuNet(cfg.Detect)
	if err != nil {
		source.Close()
		return fmt.Errorf("face locator: %w", err)
	}
	defer locator.Close()

	oracle, err := score.New(cfg.Score)
	if err != nil {
		source.Close()
		return fmt.Errorf("face scorer: %w", err)
	}
	defer oracle.Close()

	generator := buildGenerator(cmd.Context(), cfg.Narrative)
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	alertCfg := alerts.DefaultConfig()
	alertCfg.URL = cfg.Alerts.URL
	alertCfg.Exchange = cfg.Alerts.Exchange
	alertCfg.RoutingKey = cfg.Alerts.RoutingKey
	publisher, err := alerts.NewPublisher(alertCfg)
	if err != nil {
		source.Close()
		return fmt.Errorf("alert publisher: %w", err)
	}
	defer publisher.Close()

	eng, err := engine.New(cfg.Engine, engine.Deps{
		Source:     source,
		Locator:    locator,
		Scorer:     oracle,
		Aggregator: temporal.New(cfg.Temporal, confidence.New(cfg.Confidence)),
		Provider:   explain.New(cfg.Explain, generator),
		Sink:       publisher,
	})
	if err != nil {
		source.Close()
		return fmt.Errorf("engine: %w", err)
	}

	var dash *dashboard.Server
	if cfg.Dashboard.Enabled {
		dashCfg := dashboard.DefaultConfig()
		dashCfg.Addr = cfg.Dashboard.Addr
		dash, err = dashboard.NewServer(dashCfg, eng)
		if err != nil {
			source.Close()
			return fmt.Errorf("dashboard: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng.Start()
	if dash != nil {
		dash.StartAsync()
		dash.AddLog("info", fmt.Sprintf("session %s started", eng.SessionID()))
	}
	log.Info("deepguard running", "session_id", eng.SessionID(), "source", label)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case <-eng.Done():
		printFinalVerdict(eng)
	}

	eng.Stop()
	if dash != nil {
		if err := dash.Shutdown(); err != nil {
			log.Warn("dashboard shutdown", "error", err)
		}
	}
	return nil
}

// openSource picks the frame source from flags and config. The label
// names the analyzed content in explanations.
func openSource(cfg capture.Config) (engine.FrameSource, string, error) {
	switch {
	case runVideoPath != "":
		f, err := capture.OpenFile(runVideoPath, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("open video: %w", err)
		}
		log.Info("analyzing video file", "path", runVideoPath, "frames", f.FrameCount())
		return f, "video", nil
	case cfg.StreamURL != "":
		s, err := capture.DialStream(cfg)
		if err != nil {
			return nil, "", fmt.Errorf("dial stream: %w", err)
		}
		return s, "stream", nil
	default:
		c, err := capture.OpenCamera(cfg)
		if err != nil {
			return nil, "", fmt.Errorf("open camera: %w", err)
		}
		return c, "stream", nil
	}
}

// buildGenerator returns the Gemini generator when configured, the
// disabled one otherwise.
func buildGenerator(ctx context.Context, cfg config.Narrative) narrative.Generator {
	if !cfg.Enabled || cfg.APIKey == "" {
		log.Warn("remote explanations disabled, using fallback templates")
		return narrative.NewDisabled()
	}

	gen, err := narrative.NewGemini(ctx,
		narrative.WithAPIKey(cfg.APIKey),
		narrative.WithModel(cfg.Model),
	)
	if err != nil {
		log.Warn("gemini client unavailable, using fallback templates", "error", err)
		return narrative.NewDisabled()
	}
	return gen
}

// printFinalVerdict reports the terminal state after a finite source
// drained.
func printFinalVerdict(eng *engine.Engine) {
	st := eng.State()
	if st == nil || st.Temporal == nil {
		fmt.Println("Analysis complete. No faces were detected.")
		return
	}

	r := st.Temporal.Result
	fmt.Printf("\nAnalysis complete after %d frames\n", eng.Stats().FramesProcessed)
	fmt.Printf("Verdict: %s %s\n", r.Level.Emoji(), r.DisplayText())
	if st.Explanation != nil {
		fmt.Printf("\n%s\n", st.Explanation.Text)
	}
}
