package fingerprint

import (
	"math"

	"auralis.core/internal/pcm"
)

// computeStereo returns stereo_width [0,1] (0=mono, 1=fully decorrelated)
// and phase_correlation [-1,1], both derived from the Pearson correlation
// between the left and right channels — the same width = 1 - |corr|
// relationship the DSP pipeline's stereo-width stage uses (§4.5.5), so the
// fingerprint's reported width is consistent with what the pipeline will
// measure before widening.
func computeStereo(buf pcm.Buffer) (width, correlation float64, err error) {
	if buf.Channels == 1 {
		return 0, 1, nil
	}
	correlation = pearson(buf.Samples[0], buf.Samples[1])
	width = clamp01(1 - math.Abs(correlation))
	return width, correlation, nil
}

func pearson(left, right []float64) float64 {
	n := len(left)
	if n == 0 || n != len(right) {
		return 1
	}
	var meanL, meanR float64
	for i := range left {
		meanL += left[i]
		meanR += right[i]
	}
	meanL /= float64(n)
	meanR /= float64(n)

	var cov, varL, varR float64
	for i := range left {
		dl := left[i] - meanL
		dr := right[i] - meanR
		cov += dl * dr
		varL += dl * dl
		varR += dr * dr
	}
	denom := math.Sqrt(varL * varR)
	if denom <= 1e-12 {
		return 1
	}
	corr := cov / denom
	if corr > 1 {
		corr = 1
	}
	if corr < -1 {
		corr = -1
	}
	return corr
}
