package fingerprint

import (
	"math"

	"auralis.core/internal/dsp/fft"
)

// bandEdges are the seven frequency-distribution band boundaries in Hz,
// the conventional mastering-engineer split (sub-bass through air).
var bandEdges = [8]float64{20, 60, 250, 500, 2000, 4000, 6000, 20000}

const rolloffEnergyFraction = 0.85

// computeFrequencyBands returns the percent of total spectral energy in
// each of the seven bands (summing to ~100) plus bass_mid_ratio in dB
// (10*log10(bass energy / mid energy)).
func computeFrequencyBands(mono []float64, sampleRate, fftSize int) ([7]float64, float64, error) {
	mag := fft.AverageMagnitude(mono, fftSize, 64)
	power := make([]float64, len(mag))
	total := 0.0
	for i, m := range mag {
		power[i] = m * m
		total += power[i]
	}
	if total <= 0 {
		return [7]float64{8, 20, 18, 22, 16, 12, 4}, 0, nil
	}

	var bandEnergy [7]float64
	for i, p := range power {
		hz := fft.BinHz(i, fftSize, sampleRate)
		for b := 0; b < 7; b++ {
			if hz >= bandEdges[b] && hz < bandEdges[b+1] {
				bandEnergy[b] += p
				break
			}
		}
	}

	var pct [7]float64
	for b := range pct {
		pct[b] = 100 * bandEnergy[b] / total
	}

	bassMidRatio := 10 * math.Log10((bandEnergy[1]+1e-12)/(bandEnergy[3]+1e-12))
	return pct, bassMidRatio, nil
}

// computeSpectralShape returns spectral centroid (Hz), rolloff (Hz, the
// frequency below which rolloffEnergyFraction of the total spectral
// magnitude lies), and
// flatness (geometric mean / arithmetic mean of the power spectrum, in
// [0,1]: near 0 = tonal, near 1 = noise-like).
func computeSpectralShape(mono []float64, sampleRate, fftSize int) (centroid, rolloff, flatness float64, err error) {
	mag := fft.AverageMagnitude(mono, fftSize, 64)

	var weightedSum, magSum float64
	for i, m := range mag {
		hz := fft.BinHz(i, fftSize, sampleRate)
		weightedSum += hz * m
		magSum += m
	}
	if magSum <= 0 {
		return 2500, 8000, 0.3, nil
	}
	centroid = weightedSum / magSum

	target := rolloffEnergyFraction * magSum
	cumulative := 0.0
	rolloff = fft.BinHz(len(mag)-1, fftSize, sampleRate)
	for i, m := range mag {
		cumulative += m
		if cumulative >= target {
			rolloff = fft.BinHz(i, fftSize, sampleRate)
			break
		}
	}

	flatness = spectralFlatness(mag)
	return centroid, rolloff, flatness, nil
}

func spectralFlatness(mag []float64) float64 {
	const eps = 1e-12
	logSum := 0.0
	linSum := 0.0
	n := 0
	for _, m := range mag {
		p := m*m + eps
		logSum += math.Log(p)
		linSum += p
		n++
	}
	if n == 0 || linSum <= 0 {
		return 0
	}
	geometricMean := math.Exp(logSum / float64(n))
	arithmeticMean := linSum / float64(n)
	flat := geometricMean / arithmeticMean
	if flat < 0 {
		flat = 0
	}
	if flat > 1 {
		flat = 1
	}
	return flat
}
