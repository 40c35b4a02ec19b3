package pipeline

import (
	"math"

	"auralis.core/internal/dsp"
)

const minLUFSDeltaDB = 0.5

// ComputeLUFSDelta measures audio's current LUFS and returns the gain (in
// dB) that should be applied toward targetLUFS, skipping tiny adjustments
// below minLUFSDeltaDB (returns 0). Content-aware damping: very compressed
// material (dynamicRange < 8 dB, the crest-derived proxy for dynamics.DR<8
// in §4.5.6) or already-loud material (currentLUFS > -12) has its delta
// scaled down by dynamicsBlend, since pushing already-hot or already-flat
// material further risks clipping or audible pumping. Exposed separately
// from ApplyLUFSNormalization so a stereo caller can measure once on a
// downmix and apply the same delta to both channels.
func ComputeLUFSDelta(audio []float64, sampleRate int, targetLUFS, dynamicRangeDB, dynamicsBlend float64) float64 {
	current := dsp.LUFS(audio, sampleRate)
	delta := targetLUFS - current
	if math.Abs(delta) < minLUFSDeltaDB {
		return 0
	}

	if dynamicRangeDB < 8 || current > -12 {
		damping := dynamicsBlend
		if damping < 0.3 {
			damping = 0.3
		}
		if damping > 0.5 {
			damping = 0.5
		}
		delta *= damping
	}
	return delta
}

// ApplyLUFSNormalization gains a single-channel signal toward targetLUFS
// using ComputeLUFSDelta measured on that same signal.
func ApplyLUFSNormalization(audio []float64, sampleRate int, targetLUFS, dynamicRangeDB, dynamicsBlend float64) []float64 {
	delta := ComputeLUFSDelta(audio, sampleRate, targetLUFS, dynamicRangeDB, dynamicsBlend)
	if delta == 0 {
		out := make([]float64, len(audio))
		copy(out, audio)
		return out
	}
	return dsp.Amplify(audio, delta)
}

// ApplyPeakNormalization scales audio so its peak equals targetPeakDB,
// the default -1 dB per §4.5.6 (preset-configurable by the caller).
func ApplyPeakNormalization(audio []float64, targetPeakDB float64) []float64 {
	return dsp.NormalizePeak(audio, targetPeakDB)
}
