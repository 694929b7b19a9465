package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omtripathi52/deepguard/internal/config"
	"github.com/omtripathi52/deepguard/internal/log"
	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/detect"
	"github.com/omtripathi52/deepguard/pkg/score"
)

var imageCmd = &cobra.Command{
	Use:   "image <path>",
	Short: "Scan a single image for manipulated faces",
	Args:  cobra.ExactArgs(1),
	RunE:  runImage,
}

func runImage(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := config.Load()
	log.Init(cfg.LogLevel)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

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

	faces, err := locator.Locate(data)
	if err != nil {
		return fmt.Errorf("locate faces: %w", err)
	}
	if len(faces) == 0 {
		fmt.Println("No faces detected.")
		return nil
	}

	classifier := confidence.New(cfg.Confidence)

	fmt.Printf("Found %d face(s) in %s\n\n", len(faces), args[0])
	for i, face := range faces {
		pred, err := oracle.Predict(face.Crop)
		if err != nil {
			fmt.Printf("  face %d: scoring failed: %v\n", i+1, err)
			continue
		}
		result := classifier.Classify(pred.Score)
		fmt.Printf("  face %d: %s %s  (score %.4f, detector confidence %.2f)\n",
			i+1, result.Level.Emoji(), result.DisplayText(), pred.Score, face.Confidence)
	}
	return nil
}
