// Package fft wraps gonum's real FFT for the magnitude-spectrum needs of
// the fingerprint analyzer and content analyzer. Grounded on the gonum
// dsp/fourier usage pattern for windowed spectral analysis: build one
// *fourier.FFT per size, window the signal, take Coefficients, then
// magnitudes.
package fft

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// HannWindow returns a symmetric Hann window of length n.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// Magnitude computes the windowed magnitude spectrum of a single frame.
// frame must have length size; the result has size/2+1 bins. frame is
// zero-padded or truncated to size as needed so callers can pass the tail
// of a track without bounds-checking.
func Magnitude(frame []float64, size int) []float64 {
	in := make([]float64, size)
	n := len(frame)
	if n > size {
		n = size
	}
	window := HannWindow(size)
	for i := 0; i < n; i++ {
		in[i] = frame[i] * window[i]
	}

	tx := fourier.NewFFT(size)
	coeffs := tx.Coefficients(nil, in)

	mag := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mag[i] = math.Hypot(real(c), imag(c))
	}
	return mag
}

// BinHz returns the frequency in Hz represented by bin index i of a
// size-point FFT at the given sample rate.
func BinHz(i, size, sampleRate int) float64 {
	return float64(i) * float64(sampleRate) / float64(size)
}

// AverageMagnitude computes the mean windowed magnitude spectrum across
// multiple evenly-spaced frames of a long signal, the pattern used to bound
// analysis work on long tracks (the "sampling" analyzer mode and the
// content analyzer's full-spectrum path both reduce to this).
func AverageMagnitude(samples []float64, size int, maxFrames int) []float64 {
	if len(samples) < size {
		return Magnitude(samples, size)
	}
	positions := framePositions(len(samples), size, maxFrames)
	sum := make([]float64, size/2+1)
	for _, pos := range positions {
		mag := Magnitude(samples[pos:pos+size], size)
		for i, v := range mag {
			sum[i] += v
		}
	}
	for i := range sum {
		sum[i] /= float64(len(positions))
	}
	return sum
}

func framePositions(total, size, maxFrames int) []int {
	maxPositions := (total - size) / size
	if maxPositions < 1 {
		return []int{0}
	}
	count := maxPositions
	if maxFrames > 0 && count > maxFrames {
		count = maxFrames
	}
	positions := make([]int, 0, count)
	step := (total - size) / count
	if step < 1 {
		step = 1
	}
	for pos := 0; pos+size <= total && len(positions) < count; pos += step {
		positions = append(positions, pos)
	}
	return positions
}

// ToDB converts a linear magnitude slice to dB, flooring zero/negative
// values rather than returning -Inf.
func ToDB(mag []float64) []float64 {
	out := make([]float64, len(mag))
	for i, v := range mag {
		if v <= 1e-10 {
			out[i] = -200
			continue
		}
		out[i] = 20 * math.Log10(v)
	}
	return out
}
