package fingerprint

import (
	"math"

	"auralis.core/internal/dsp"
)

const (
	envelopeFrame = 1024
	envelopeHop   = 512
	minBPM        = 40.0
	maxBPM        = 300.0
	silenceDB     = -50.0
)

// computeTemporal estimates tempo (BPM), rhythm stability [0,1], transient
// density [0,1], and silence ratio [0,1] from an RMS-envelope onset
// detector and its autocorrelation — a standard lightweight tempo
// estimator, adequate for the mastering engine's purposes without pulling
// in a full beat-tracking library.
func computeTemporal(mono []float64, sampleRate int) (tempo, stability, density, silence float64, err error) {
	envelope := rmsEnvelope(mono, envelopeFrame, envelopeHop)
	if len(envelope) < 4 {
		return 120, 0.5, 0.3, 0, nil
	}

	onset := onsetStrength(envelope)
	lagMin := int(60.0 * float64(sampleRate) / (maxBPM * envelopeHop))
	lagMax := int(60.0 * float64(sampleRate) / (minBPM * envelopeHop))
	if lagMin < 1 {
		lagMin = 1
	}
	if lagMax >= len(onset) {
		lagMax = len(onset) - 1
	}
	if lagMax <= lagMin {
		return 120, 0.5, transientDensity(onset, sampleRate, len(mono)), silenceRatio(mono, sampleRate), nil
	}

	bestLag, bestVal, total := 0, -1.0, 0.0
	corr := autocorrelate(onset, lagMin, lagMax)
	for lag, v := range corr {
		total += math.Abs(v)
		if v > bestVal {
			bestVal, bestLag = v, lag+lagMin
		}
	}
	if bestLag == 0 {
		tempo = 120
		stability = 0.5
	} else {
		tempo = 60.0 * float64(sampleRate) / (float64(bestLag) * envelopeHop)
		if total > 0 {
			stability = clamp01(bestVal / total)
		} else {
			stability = 0.5
		}
	}

	density = transientDensity(onset, sampleRate, len(mono))
	silence = silenceRatio(mono, sampleRate)
	return tempo, stability, density, silence, nil
}

func rmsEnvelope(mono []float64, frame, hop int) []float64 {
	var env []float64
	for start := 0; start+frame <= len(mono); start += hop {
		env = append(env, dsp.RMS(mono[start:start+frame]))
	}
	return env
}

// onsetStrength half-wave rectifies the frame-to-frame envelope increase.
func onsetStrength(envelope []float64) []float64 {
	out := make([]float64, len(envelope))
	for i := 1; i < len(envelope); i++ {
		d := envelope[i] - envelope[i-1]
		if d > 0 {
			out[i] = d
		}
	}
	return out
}

func autocorrelate(x []float64, lagMin, lagMax int) []float64 {
	out := make([]float64, lagMax-lagMin+1)
	for lag := lagMin; lag <= lagMax; lag++ {
		var sum float64
		for i := 0; i+lag < len(x); i++ {
			sum += x[i] * x[i+lag]
		}
		out[lag-lagMin] = sum
	}
	return out
}

// transientDensity counts onset peaks exceeding a threshold and normalizes
// by track duration, capping at a practical ceiling of 5 transients/sec.
func transientDensity(onset []float64, sampleRate, sampleCount int) float64 {
	if len(onset) == 0 || sampleCount == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range onset {
		mean += v
	}
	mean /= float64(len(onset))
	threshold := mean * 1.5

	count := 0
	for _, v := range onset {
		if v > threshold && threshold > 0 {
			count++
		}
	}
	seconds := float64(sampleCount) / float64(sampleRate)
	if seconds <= 0 {
		return 0
	}
	return clamp01(float64(count) / seconds / 5.0)
}

func silenceRatio(mono []float64, sampleRate int) float64 {
	frame := sampleRate / 10
	if frame < 1 {
		frame = 1
	}
	total, silent := 0, 0
	for start := 0; start+frame <= len(mono); start += frame {
		total++
		if dsp.ToDB(dsp.RMS(mono[start:start+frame])) < silenceDB {
			silent++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(silent) / float64(total)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
