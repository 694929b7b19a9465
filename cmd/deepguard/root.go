// deepguard is the CLI for the deepfake detection pipeline: run the
// live engine with its web dashboard, or scan a single image or video
// file from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "deepguard",
	Short: "Real-time deepfake detection with temporal confidence smoothing",
	Long: "DeepGuard locates faces in live or recorded video, scores each frame\n" +
		"for manipulation and smooths the verdict over a sliding window before\n" +
		"reporting it.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
