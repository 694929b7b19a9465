package main

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omtripathi52/deepguard/internal/config"
	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/pkg/capture"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/detect"
	"github.com/omtripathi52/deepguard/pkg/score"
)

var videoCmd = &cobra.Command{
	Use:   "video <path>",
	Short: "Scan a video file and report an overall verdict",
	Long: `Samples frames from the video, scores every face it finds and
classifies the mean score. For the full temporal pipeline with smoothing
and explanations, use 'deepguard run --video' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

var (
	videoSampleRate int
	videoMaxFrames  int
)

func init() {
	videoCmd.Flags().IntVar(&videoSampleRate, "sample-rate", 15, "Score every Nth frame")
	videoCmd.Flags().IntVar(&videoMaxFrames, "max-frames", 300, "Stop after this many scored frames")
}

func runVideo(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := config.Load()
	log.Init(cfg.LogLevel)

	if videoSampleRate < 1 {
		return fmt.Errorf("sample rate must be at least 1")
	}
	if videoMaxFrames < 1 {
		return fmt.Errorf("max frames must be at least 1")
	}

	src, err := capture.OpenFile(args[0], cfg.Capture)
	if err != nil {
		return fmt.Errorf("open video: %w", err)
	}
	defer src.Close()

	locator, err := detect.NewYuNet(cfg.Detect)
	if err != nil {
		return fmt.Errorf("face locator: %w", err)
	}
	defer locator.Close()

	oracle, err := score.New(cfg.Score)
	if err != nil {
		return fmt.Errorf("face scorer: %w", err)
	}
	defer oracle.Close()

	fmt.Printf("Analyzing %s: %d frames total, sampling every %d\n",
		args[0], src.FrameCount(), videoSampleRate)

	var (
		frameIdx int
		scores   []float64
		noFace   int
	)
	for len(scores) < videoMaxFrames {
		frame, err := src.CaptureFrame()
		if errors.Is(err, capture.ErrEOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}
		frameIdx++
		if (frameIdx-1)%videoSampleRate != 0 {
			continue
		}

		faces, err := locator.Locate(frame)
		if err != nil {
			return fmt.Errorf("locate faces: %w", err)
		}
		if len(faces) == 0 {
			noFace++
			continue
		}

		pred, err := oracle.Predict(faces[0].Crop)
		if err != nil {
			log.Warn("scoring failed", "frame", frameIdx, "error", err)
			continue
		}
		scores = append(scores, pred.Score)
		if len(scores)%50 == 0 {
			fmt.Printf("  scored %d frames...\n", len(scores))
		}
	}

	if len(scores) == 0 {
		fmt.Println("No faces detected in the sampled frames.")
		return nil
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	result := confidence.New(cfg.Confidence).Classify(mean)

	fmt.Printf("\nScored %d sampled frames (%d had no face)\n", len(scores), noFace)
	fmt.Printf("Mean score: %.4f\n", mean)
	fmt.Printf("Verdict: %s %s\n", result.Level.Emoji(), result.DisplayText())
	return nil
}
