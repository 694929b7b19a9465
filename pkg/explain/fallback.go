package explain

import (
	"fmt"

	"github.com/omtripathi52/deepguard/pkg/confidence"
	"github.com/omtripathi52/deepguard/pkg/temporal"
)

// fallback deterministically selects a template for the verdict and
// appends a trend suffix. It never fails.
func (p *Provider) fallback(result confidence.DetectionResult, contextLabel string, trend temporal.Trend, framesAnalyzed int) Explanation {
	templates := fallbackTemplates(result, contextLabel, framesAnalyzed)

	text := templates[p.cfg.Selector(len(templates))]

	switch trend {
	case temporal.TrendRising:
		text += " Detection confidence is increasing."
	case temporal.TrendFalling:
		text += " Detection confidence is decreasing."
	}

	return Explanation{Text: text, Source: SourceFallback}
}

// fallbackTemplates returns the fixed template set for a level.
func fallbackTemplates(result confidence.DetectionResult, contextLabel string, framesAnalyzed int) []string {
	pct := result.ConfidencePct

	switch result.Level {
	case confidence.LevelReal:
		return []string{
			fmt.Sprintf("This %s appears to be authentic. Facial features and movements are consistent with natural human expression.", contextLabel),
			fmt.Sprintf("No manipulation detected. The %s shows natural facial characteristics across %d analyzed frames.", contextLabel, framesAnalyzed),
		}
	case confidence.LevelLikelyReal:
		return []string{
			fmt.Sprintf("This %s is most likely authentic. Minor variations detected are within normal range.", contextLabel),
			"Appears genuine. Slight anomalies may be due to compression or lighting, not manipulation.",
		}
	case confidence.LevelUncertain:
		return []string{
			"Unable to determine with confidence. This could be due to video quality, lighting, or compression artifacts.",
			"Analysis inconclusive. Consider the source credibility before making judgments.",
			fmt.Sprintf("The %s shows mixed signals. Exercise caution and verify through other means.", contextLabel),
		}
	case confidence.LevelLikelyFake:
		return []string{
			fmt.Sprintf("Potential manipulation detected with %d%% confidence. Facial texture inconsistencies observed.", pct),
			fmt.Sprintf("This %s shows signs that may indicate synthetic generation. Verify the source.", contextLabel),
		}
	case confidence.LevelDeepfake:
		return []string{
			fmt.Sprintf("High probability of deepfake detected (%d%%). Facial artifacts and unnatural patterns identified across frames.", pct),
			fmt.Sprintf("This %s shows strong indicators of AI manipulation. Facial boundaries and textures appear synthetic.", contextLabel),
			"Warning: Likely deepfake content. Detected inconsistent facial motion and texture artifacts.",
		}
	}
	return []string{"Analysis complete."}
}
