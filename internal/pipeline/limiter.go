package pipeline

import "auralis.core/internal/dsp"

const (
	limiterSafetyThresholdDB = 1.0
	limiterSoftClipThreshold = 0.89
	limiterCeiling           = 0.95
)

// ApplySafetyLimiter is the pipeline's last operation: if the post-
// normalization peak exceeds the safety threshold (+1 dBFS), soft_clip
// brings it back under the ceiling. Below the threshold, audio passes
// through unchanged.
func ApplySafetyLimiter(audio []float64) []float64 {
	if dsp.ToDB(dsp.Peak(audio)) <= limiterSafetyThresholdDB {
		out := make([]float64, len(audio))
		copy(out, audio)
		return out
	}
	return dsp.SoftClip(audio, limiterSoftClipThreshold, limiterCeiling)
}
