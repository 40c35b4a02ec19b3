// Package dsp holds the leaf primitives of the processing-parameter
// execution pipeline (C5, whose stages live in internal/pipeline): the
// primitive measurements (rms, peak, crest, LUFS) and gain operations
// (amplify, normalize, soft-clip) are shared by the fingerprint analyzer,
// content analyzer, and the pipeline stages, mirroring how the original source's dsp.stages module
// imports its primitives from a sibling basic/utils module rather than
// redefining them per caller.
package dsp

import "math"

// RMS returns the root-mean-square level of audio, in linear amplitude.
func RMS(audio []float64) float64 {
	if len(audio) == 0 {
		return 0
	}
	var sum float64
	for _, s := range audio {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(audio)))
}

// Peak returns the maximum absolute sample value.
func Peak(audio []float64) float64 {
	var peak float64
	for _, s := range audio {
		a := math.Abs(s)
		if a > peak {
			peak = a
		}
	}
	return peak
}

// ToDB converts a linear amplitude to dB, returning -200 (a practical
// floor) rather than -Inf for zero/negative input.
func ToDB(lin float64) float64 {
	if lin <= 1e-10 {
		return -200
	}
	return 20 * math.Log10(lin)
}

// ToLinear converts a dB value to linear amplitude.
func ToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// CrestDB returns the peak-to-RMS ratio in dB: high crest is dynamic
// material, low crest is compressed/brick-walled material.
func CrestDB(audio []float64) float64 {
	rms := RMS(audio)
	if rms <= 1e-10 {
		return 0
	}
	return ToDB(Peak(audio)) - ToDB(rms)
}

// kWeightingOffsetDB is the fixed calibration constant resolving the
// "approximate LUFS" open question: a single-stage K-weighting
// approximation offset by -23 dB, calibrated against this approximation
// rather than a certified BS.1770 loudness meter (see SPEC_FULL.md §10.2).
const kWeightingOffsetDB = -23.0

// LUFS returns an approximate integrated loudness in LUFS: a one-pole
// high-pass (removing sub-60Hz rumble that BS.1770's K-weighting also
// attenuates) followed by K-weighted RMS with a fixed -23 dB offset.
func LUFS(audio []float64, sampleRate int) float64 {
	if len(audio) == 0 || sampleRate <= 0 {
		return -70
	}
	filtered := kWeightedApprox(audio, sampleRate)
	rms := RMS(filtered)
	if rms <= 1e-10 {
		return -70
	}
	return ToDB(rms) + kWeightingOffsetDB
}

// kWeightedApprox applies a first-order high-pass around 60 Hz (removing
// DC and sub-bass rumble that would otherwise inflate the RMS reading)
// followed by a gentle high-shelf lift above 2kHz, collapsing BS.1770's
// two-stage K-weighting filter into one pass, as noted in SPEC_FULL.md.
func kWeightedApprox(audio []float64, sampleRate int) []float64 {
	out := make([]float64, len(audio))
	// One-pole high-pass, cutoff ~60Hz.
	rc := 1.0 / (2 * math.Pi * 60.0)
	dt := 1.0 / float64(sampleRate)
	alpha := rc / (rc + dt)
	var prevIn, prevOut float64
	for i, x := range audio {
		y := alpha * (prevOut + x - prevIn)
		out[i] = y
		prevIn, prevOut = x, y
	}
	// High-shelf lift above ~2kHz via a simple one-pole low-pass subtracted
	// back in (adds high-frequency emphasis matching K-weighting's shelf).
	shelfRC := 1.0 / (2 * math.Pi * 2000.0)
	shelfAlpha := dt / (shelfRC + dt)
	var lp float64
	for i, x := range out {
		lp += shelfAlpha * (x - lp)
		out[i] = x + 0.4*(x-lp)
	}
	return out
}

// Amplify scales audio by gainDB, in place semantics avoided — returns a
// new slice so callers keep the input untouched.
func Amplify(audio []float64, gainDB float64) []float64 {
	gain := ToLinear(gainDB)
	out := make([]float64, len(audio))
	for i, s := range audio {
		out[i] = s * gain
	}
	return out
}

// NormalizePeak scales audio so its peak equals targetPeakDB.
func NormalizePeak(audio []float64, targetPeakDB float64) []float64 {
	peak := Peak(audio)
	if peak <= 1e-10 {
		out := make([]float64, len(audio))
		copy(out, audio)
		return out
	}
	targetLinear := ToLinear(targetPeakDB)
	gain := targetLinear / peak
	out := make([]float64, len(audio))
	for i, s := range audio {
		out[i] = s * gain
	}
	return out
}

// SoftClip applies a tanh-like curve above threshold with a hard ceiling,
// symmetric in sign. threshold and ceiling are linear amplitudes
// (typically ~0.89 and ~0.95).
func SoftClip(audio []float64, threshold, ceiling float64) []float64 {
	out := make([]float64, len(audio))
	span := ceiling - threshold
	for i, s := range audio {
		sign := 1.0
		a := s
		if a < 0 {
			sign = -1
			a = -a
		}
		if a <= threshold {
			out[i] = s
			continue
		}
		excess := (a - threshold) / (1 - threshold) // 0..~1+ as a -> 1
		shaped := threshold + span*math.Tanh(excess)
		if shaped > ceiling {
			shaped = ceiling
		}
		out[i] = sign * shaped
	}
	return out
}
