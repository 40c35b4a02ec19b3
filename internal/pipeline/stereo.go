package pipeline

import (
	"math"

	"auralis.core/internal/dsp"
	"auralis.core/internal/pcm"
)

// currentStereoWidth computes 1 - |correlation| across the two channels,
// matching the fingerprint analyzer's own stereo-width definition (0=mono,
// 1=fully decorrelated).
func currentStereoWidth(left, right []float64) float64 {
	return 1 - pearsonAbs(left, right)
}

func pearsonAbs(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 1
	}
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	denom := sqrtProduct(varA, varB)
	if denom <= 1e-12 {
		return 1
	}
	c := cov / denom
	if c < 0 {
		c = -c
	}
	if c > 1 {
		c = 1
	}
	return c
}

func sqrtProduct(a, b float64) float64 {
	return math.Sqrt(a * b)
}

// ApplyStereoWidth mid/side-encodes a stereo buffer and scales the side
// channel by 2*widthFactor (0=>mono, 0.5=>unchanged, 1=>doubled), per
// §4.5.5. Mono buffers pass through unchanged — width has no meaning for
// them. Safety: if the current peak exceeds 3 dBFS and the requested
// width is wider than current, the width increase is capped so peak
// expansion from the wider side channel cannot push the signal further
// out of range (the pipeline's "adaptive mode" safety choice).
func ApplyStereoWidth(buf pcm.Buffer, targetWidth float64) pcm.Buffer {
	if buf.Channels != 2 {
		return buf.Clone()
	}

	left, right := buf.Samples[0], buf.Samples[1]
	current := currentStereoWidth(left, right)
	peak := dsp.Peak(buf.Interleaved())

	widthFactor := targetWidth
	if dsp.ToDB(peak) > 3 && targetWidth > current {
		widthFactor = current
	}

	sideScale := 2 * widthFactor

	n := buf.Frames()
	outL := make([]float64, n)
	outR := make([]float64, n)
	for i := 0; i < n; i++ {
		mid := (left[i] + right[i]) / 2
		side := (left[i] - right[i]) / 2 * sideScale
		outL[i] = mid + side
		outR[i] = mid - side
	}

	return pcm.Buffer{SampleRate: buf.SampleRate, Channels: 2, Samples: [][]float64{outL, outR}}
}
