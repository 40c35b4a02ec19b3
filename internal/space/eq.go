package space

import (
	"math"

	"auralis.core/internal/fingerprint"
)

const (
	maxLowShelfGain  = 5.0
	maxLowMidGain    = 3.0
	maxMidGain       = 2.0
	maxHighMidGain   = 4.0
	maxHighShelfGain = 4.0

	// deficitExponent shapes the deficit→gain curve (step 4's "deficit^0.7").
	deficitExponent = 0.7
)

// generateEQ computes the five-band EQ curve (step 4) and the blend factor
// (step 5). Gains are deficit-driven: a band below its target percentage of
// spectral energy gets a boost proportional to deficit^0.7, scaled to the
// band's documented maximum, then shifted by the matching preference
// offset (bass_boost for the low end, treble_boost for the high end).
func generateEQ(fp fingerprint.Fingerprint, pref Preference) (EQCurve, float64) {
	lowGain := deficitGain(fp.Bass, 28, maxLowShelfGain) + pref.BassBoost*maxLowShelfGain
	lowMidGain := deficitGain(fp.LowMid, 20, maxLowMidGain) + pref.BassBoost*maxLowMidGain*0.3
	midGain := deficitGain(fp.Mid, 22, maxMidGain)
	highMidGain := deficitGain(fp.Presence, 14, maxHighMidGain) + pref.TrebleBoost*maxHighMidGain*0.3
	highShelfGain := deficitGain(fp.Air, 6, maxHighShelfGain) + pref.TrebleBoost*maxHighShelfGain

	curve := EQCurve{
		LowShelf:  EQBand{FrequencyHz: freqLowShelf, GainDB: clampGain(lowGain, maxLowShelfGain)},
		LowMid:    EQBand{FrequencyHz: freqLowMid, GainDB: clampGain(lowMidGain, maxLowMidGain)},
		Mid:       EQBand{FrequencyHz: freqMid, GainDB: clampGain(midGain, maxMidGain)},
		HighMid:   EQBand{FrequencyHz: freqHighMid, GainDB: clampGain(highMidGain, maxHighMidGain)},
		HighShelf: EQBand{FrequencyHz: freqHighShelf, GainDB: clampGain(highShelfGain, maxHighShelfGain)},
	}

	imbalance := averageImbalance(fp)
	blend := clampRange(0.5+0.5*imbalance, 0.5, 1.0)

	return curve, blend
}

// deficitGain maps how far pct sits below target into a gain in
// [0, maxGain], per step 4's gain = deficit^0.7 * G_max.
func deficitGain(pct, target, maxGain float64) float64 {
	deficit := (target - pct) / target
	if deficit <= 0 {
		return 0
	}
	if deficit > 1 {
		deficit = 1
	}
	return math.Pow(deficit, deficitExponent) * maxGain
}

// clampGain bounds a gain (which may be negative from a preference offset)
// to +/-maxGain.
func clampGain(gain, maxGain float64) float64 {
	return clampRange(gain, -maxGain, maxGain)
}

// averageImbalance is the mean absolute deficit across the five EQ target
// bands, driving step 5's eq_blend: a more imbalanced spectrum blends in
// more of the filtered signal.
func averageImbalance(fp fingerprint.Fingerprint) float64 {
	deficits := []float64{
		math.Abs((28 - fp.Bass) / 28),
		math.Abs((20 - fp.LowMid) / 20),
		math.Abs((22 - fp.Mid) / 22),
		math.Abs((14 - fp.Presence) / 14),
		math.Abs((6 - fp.Air) / 6),
	}
	sum := 0.0
	for _, d := range deficits {
		sum += d
	}
	avg := sum / float64(len(deficits))
	if avg > 1 {
		avg = 1
	}
	return avg
}
