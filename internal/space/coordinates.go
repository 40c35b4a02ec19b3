package space

import "auralis.core/internal/fingerprint"

// Coordinates is the 3D processing space a fingerprint is projected into,
// each axis clamped to [0,1].
type Coordinates struct {
	SpectralBalance float64
	DynamicRange    float64
	EnergyLevel     float64
}

// norm linearly rescales x from [lo,hi] to [0,1] without clamping; callers
// clamp the weighted sum afterward, matching the original mapper's
// structure of summing un-clamped per-feature terms and clamping once.
func norm(x, lo, hi float64) float64 {
	return (x - lo) / (hi - lo)
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

// Map projects a fingerprint into Coordinates using the three weighted-sum
// formulas from §4.4, confirmed against continuous_space.py's
// _calculate_spectral_balance, _calculate_dynamic_range and
// _calculate_energy_level.
func Map(fp fingerprint.Fingerprint) Coordinates {
	spectralBalance := 0.35*(1-norm(fp.Bass, 15, 40)) +
		0.35*norm(fp.Air, 5, 20) +
		0.15*norm(fp.SpectralCentroid, 1000, 6000) +
		0.15*norm(fp.Presence, 8, 25)

	dynamicRange := 0.5*norm(fp.CrestDB, 8, 20) +
		0.3*fp.DynamicRangeVariation +
		0.2*norm(fp.LoudnessVariationStd, 0, 5)

	energyLevel := norm(fp.LUFS, -30, -10)

	return Coordinates{
		SpectralBalance: clamp01(spectralBalance),
		DynamicRange:    clamp01(dynamicRange),
		EnergyLevel:     clamp01(energyLevel),
	}
}

// Bias applies the preference vector to coordinates with the fixed
// strength 0.3 from generator step 1, reclamping afterward. spectral_bias,
// dynamic_bias and loudness_bias drive the three axes respectively;
// bass_boost/treble_boost/stereo_bias are consumed later, directly by the
// EQ and stereo-width steps.
func Bias(c Coordinates, pref Preference) Coordinates {
	const strength = 0.3
	return Coordinates{
		SpectralBalance: clamp01(c.SpectralBalance + strength*pref.SpectralBias),
		DynamicRange:    clamp01(c.DynamicRange + strength*pref.DynamicBias),
		EnergyLevel:     clamp01(c.EnergyLevel + strength*pref.LoudnessBias),
	}
}
