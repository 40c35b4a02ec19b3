package fingerprint

import (
	"math"

	"auralis.core/internal/dsp"
)

// computeVariation splits the signal into one-second windows and derives
// three stability/variation measures:
//   - dynamic_range_variation [0,1]: normalized std-dev of per-window crest
//     factor — high variation suggests intentional dynamic contrast.
//   - loudness_variation_std: raw std-dev of per-window LUFS in dB (left
//     unnormalized; the continuous-space mapper normalizes it against a
//     0-5dB range per its documented formula).
//   - peak_consistency [0,1]: 1 minus the normalized std-dev of per-window
//     peak level — near 1 means the track holds a steady peak ceiling.
func computeVariation(mono []float64, sampleRate int) (drVariation, loudnessStd, peakConsistency float64, err error) {
	window := sampleRate
	if window < 1 {
		window = 1
	}

	var crests, loudness, peaks []float64
	for start := 0; start+window <= len(mono); start += window {
		w := mono[start : start+window]
		crests = append(crests, dsp.CrestDB(w))
		loudness = append(loudness, dsp.LUFS(w, sampleRate))
		peaks = append(peaks, dsp.ToDB(dsp.Peak(w)))
	}

	if len(crests) < 2 {
		return 0, 0, 1, nil
	}

	drVariation = clamp01(stdDev(crests) / 8.0)
	loudnessStd = stdDev(loudness)
	peakConsistency = clamp01(1 - stdDev(peaks)/12.0)
	return drVariation, loudnessStd, peakConsistency, nil
}

func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := meanOf(xs, 0)
	var variance float64
	for _, x := range xs {
		if math.IsInf(x, -1) {
			continue
		}
		d := x - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)))
}
