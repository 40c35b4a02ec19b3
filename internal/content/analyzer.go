package content

import (
	"math"
	"sort"

	"auralis.core/internal/dsp"
	"auralis.core/internal/dsp/fft"
	"auralis.core/internal/pcm"
)

const (
	quickFFTSize = 512
	fullFFTSize  = 4096
	lowEnergyRMS = 0.1
	highEnergyRMS = 0.3
	defaultDynamicRangeDB = 20.0
)

// Analyze produces the full ContentProfile: full-spectrum centroid/rolloff,
// an estimated tempo, and a percentile-based dynamic range estimate.
func Analyze(buf pcm.Buffer) Profile {
	return analyze(buf, fullFFTSize, true)
}

// AnalyzeQuick skips tempo estimation and uses a 512-point FFT only, for
// real-time paths where a full analysis would add too much latency.
func AnalyzeQuick(buf pcm.Buffer) Profile {
	return analyze(buf, quickFFTSize, false)
}

func analyze(buf pcm.Buffer, fftSize int, withTempo bool) Profile {
	mono := buf.Mono()
	if len(mono) == 0 {
		return Profile{Energy: EnergyLow, DynamicRangeDB: defaultDynamicRangeDB, LUFS: -70}
	}

	rms := dsp.RMS(mono)
	peak := dsp.Peak(mono)
	crest := dsp.CrestDB(mono)
	lufs := dsp.LUFS(mono, buf.SampleRate)

	mag := fft.AverageMagnitude(mono, fftSize, 32)
	centroid, rolloff := centroidAndRolloff(mag, fftSize, buf.SampleRate)

	p := Profile{
		RMS:              rms,
		Peak:             peak,
		CrestDB:          crest,
		LUFS:             lufs,
		SpectralCentroid: centroid,
		SpectralRolloff:  rolloff,
		ZeroCrossingRate: zeroCrossingRate(mono),
		Energy:           energyLevel(rms),
		DynamicRangeDB:   dynamicRangePercentile(mono, buf.SampleRate),
	}

	if buf.Channels == 2 {
		p.StereoWidthFlag = isDecorrelated(buf.Samples[0], buf.Samples[1])
	}

	if withTempo {
		p.TempoBPM = estimateTempo(mono, buf.SampleRate)
	}

	return p
}

func centroidAndRolloff(mag []float64, fftSize, sampleRate int) (centroid, rolloff float64) {
	var weighted, total float64
	for i, m := range mag {
		hz := fft.BinHz(i, fftSize, sampleRate)
		weighted += hz * m
		total += m
	}
	if total <= 0 {
		return 2500, 8000
	}
	centroid = weighted / total

	const rolloffFraction = 0.85
	target := rolloffFraction * total
	cumulative := 0.0
	rolloff = fft.BinHz(len(mag)-1, fftSize, sampleRate)
	for i, m := range mag {
		cumulative += m
		if cumulative >= target {
			rolloff = fft.BinHz(i, fftSize, sampleRate)
			break
		}
	}
	return centroid, rolloff
}

func zeroCrossingRate(mono []float64) float64 {
	if len(mono) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(mono); i++ {
		if (mono[i-1] >= 0) != (mono[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(mono)-1)
}

func energyLevel(rms float64) EnergyLevel {
	switch {
	case rms < lowEnergyRMS:
		return EnergyLow
	case rms < highEnergyRMS:
		return EnergyMedium
	default:
		return EnergyHigh
	}
}

// dynamicRangePercentile measures the dB spread between the 10th and 95th
// percentile of per-second RMS across the track, defaulting to 20dB for
// tracks too short or too quiet to estimate percentiles meaningfully.
func dynamicRangePercentile(mono []float64, sampleRate int) float64 {
	window := sampleRate
	if window < 1 {
		window = 1
	}
	var levels []float64
	for start := 0; start+window <= len(mono); start += window {
		r := dsp.RMS(mono[start : start+window])
		if r > 1e-10 {
			levels = append(levels, dsp.ToDB(r))
		}
	}
	if len(levels) < 3 {
		return defaultDynamicRangeDB
	}
	sort.Float64s(levels)
	p10 := percentile(levels, 0.10)
	p95 := percentile(levels, 0.95)
	dr := p95 - p10
	if dr < 0 {
		dr = 0
	}
	return dr
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func isDecorrelated(left, right []float64) bool {
	n := len(left)
	if n == 0 || n != len(right) {
		return false
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
	denom := varL * varR
	if denom <= 0 {
		return false
	}
	corr := cov / math.Sqrt(denom)
	return corr < 0.7
}

// estimateTempo finds the dominant periodicity of the RMS onset envelope,
// the same lightweight approach the fingerprint analyzer uses for
// tempo_bpm, kept independent here so the content analyzer has no
// dependency on the fingerprint package.
func estimateTempo(mono []float64, sampleRate int) float64 {
	const frame, hop = 1024, 512
	var envelope []float64
	for start := 0; start+frame <= len(mono); start += hop {
		envelope = append(envelope, dsp.RMS(mono[start:start+frame]))
	}
	if len(envelope) < 4 {
		return 120
	}

	onset := make([]float64, len(envelope))
	for i := 1; i < len(envelope); i++ {
		if d := envelope[i] - envelope[i-1]; d > 0 {
			onset[i] = d
		}
	}

	lagMin := int(60.0 * float64(sampleRate) / (300.0 * hop))
	lagMax := int(60.0 * float64(sampleRate) / (40.0 * hop))
	if lagMin < 1 {
		lagMin = 1
	}
	if lagMax >= len(onset) {
		lagMax = len(onset) - 1
	}
	if lagMax <= lagMin {
		return 120
	}

	bestLag, bestVal := 0, -1.0
	for lag := lagMin; lag <= lagMax; lag++ {
		var sum float64
		for i := 0; i+lag < len(onset); i++ {
			sum += onset[i] * onset[i+lag]
		}
		if sum > bestVal {
			bestVal, bestLag = sum, lag
		}
	}
	if bestLag == 0 {
		return 120
	}
	return 60.0 * float64(sampleRate) / (float64(bestLag) * hop)
}
