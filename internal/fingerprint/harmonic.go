package fingerprint

import (
	"math"

	"auralis.core/internal/dsp/fft"
)

const (
	pitchFrame  = 2048
	pitchHop    = 1024
	minPitchHz  = 80.0
	maxPitchHz  = 1000.0
	chromaBins  = 12
	chromaA4Ref = 440.0
)

// computeHarmonic estimates harmonic_ratio (mean per-frame periodicity
// strength via normalized autocorrelation, a lightweight YIN-style pitch
// detector), pitch_stability (one minus the coefficient of variation of the
// detected fundamental across frames), and chroma_energy (concentration
// of spectral energy in the dominant pitch class of a 12-bin chroma fold).
func computeHarmonic(mono []float64, sampleRate, fftSize int) (harmonicRatio, pitchStability, chromaEnergy float64, err error) {
	lagMin := int(float64(sampleRate) / maxPitchHz)
	lagMax := int(float64(sampleRate) / minPitchHz)
	if lagMin < 1 {
		lagMin = 1
	}

	var periodicities []float64
	var pitches []float64
	for start := 0; start+pitchFrame <= len(mono); start += pitchHop {
		frame := mono[start : start+pitchFrame]
		if lagMax >= len(frame) {
			lagMax = len(frame) - 1
		}
		if lagMax <= lagMin {
			continue
		}
		lag, strength := bestNormalizedAutocorrLag(frame, lagMin, lagMax)
		periodicities = append(periodicities, strength)
		if lag > 0 {
			pitches = append(pitches, float64(sampleRate)/float64(lag))
		}
	}

	harmonicRatio = meanOf(periodicities, 0.5)
	pitchStability = stabilityOf(pitches)

	mag := fft.AverageMagnitude(mono, fftSize, 64)
	chroma := chromaVector(mag, fftSize, sampleRate)
	chromaEnergy = chromaConcentration(chroma)

	return harmonicRatio, pitchStability, chromaEnergy, nil
}

// bestNormalizedAutocorrLag finds the lag in [lagMin, lagMax] with the
// strongest normalized autocorrelation, a proxy for frame periodicity.
func bestNormalizedAutocorrLag(frame []float64, lagMin, lagMax int) (int, float64) {
	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if energy <= 1e-12 {
		return 0, 0
	}

	bestLag, bestVal := 0, 0.0
	for lag := lagMin; lag <= lagMax; lag++ {
		var sum float64
		for i := 0; i+lag < len(frame); i++ {
			sum += frame[i] * frame[i+lag]
		}
		normalized := sum / energy
		if normalized > bestVal {
			bestVal, bestLag = normalized, lag
		}
	}
	return bestLag, clamp01(bestVal)
}

func meanOf(xs []float64, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stabilityOf(pitches []float64) float64 {
	if len(pitches) < 2 {
		return 0.5
	}
	mean := meanOf(pitches, 0)
	if mean <= 0 {
		return 0.5
	}
	var variance float64
	for _, p := range pitches {
		d := p - mean
		variance += d * d
	}
	variance /= float64(len(pitches))
	cv := math.Sqrt(variance) / mean
	return clamp01(1 - cv)
}

// chromaVector folds a magnitude spectrum into 12 pitch classes using
// equal-temperament bin-to-semitone mapping relative to A4 (440Hz).
func chromaVector(mag []float64, fftSize, sampleRate int) [chromaBins]float64 {
	var chroma [chromaBins]float64
	for i, m := range mag {
		hz := fft.BinHz(i, fftSize, sampleRate)
		if hz < 20 {
			continue
		}
		semitone := 12*math.Log2(hz/chromaA4Ref) + 69
		class := int(math.Round(semitone)) % chromaBins
		if class < 0 {
			class += chromaBins
		}
		chroma[class] += m * m
	}
	return chroma
}

func chromaConcentration(chroma [chromaBins]float64) float64 {
	var total, max float64
	for _, v := range chroma {
		total += v
		if v > max {
			max = v
		}
	}
	if total <= 0 {
		return 0.5
	}
	return clamp01(max / total)
}
