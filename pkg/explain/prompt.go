package explain

import (
	"fmt"

	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

// buildPrompt renders the generation prompt for a verdict. The
// generator explains the result; it does not detect.
func buildPrompt(result confidence.DetectionResult, contextLabel string, trend temporal.Trend, framesAnalyzed int) string {
	return fmt.Sprintf(`You are an AI safety assistant explaining deepfake detection results.

Detection Result:
- Classification: %s
- Confidence Score: %.2f%% probability of being manipulated
- Confidence Display: %d%%
- Content Type: %s
- Prediction Trend: %s
- Frames Analyzed: %d

Generate a brief, helpful explanation (2-3 sentences) for a non-technical user.
- If REAL/LIKELY REAL: Reassure them, mention what looks authentic
- If UNCERTAIN: Explain why it's unclear, suggest caution
- If LIKELY FAKE/DEEPFAKE: Explain what signals triggered this, but avoid alarmism

Be concise. Do not use technical jargon. Do not use markdown formatting.`,
		result.Level, result.Score*100, result.ConfidencePct, contextLabel, trend, framesAnalyzed)
}
