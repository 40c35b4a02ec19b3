package space

import (
	"math"

	"auralis.core/internal/fingerprint"
)

// EQBand is one band of the fixed five-band EQ curve.
type EQBand struct {
	FrequencyHz float64
	GainDB      float64
}

// EQCurve is the five fixed-frequency bands in order.
type EQCurve struct {
	LowShelf EQBand
	LowMid   EQBand
	Mid      EQBand
	HighMid  EQBand
	HighShelf EQBand
}

// CompressionParams configures the compressor stage (used only when
// dynamics.amount > 0; mutually exclusive with expansion).
type CompressionParams struct {
	Ratio      float64
	ThresholdDB float64
	AttackMS   float64
	ReleaseMS  float64
	Amount     float64
}

// ExpansionParams configures the expander stage ("de-mastering").
type ExpansionParams struct {
	TargetCrestIncreaseDB float64
	Amount                float64
}

// LimiterParams configures the final safety limiter.
type LimiterParams struct {
	ThresholdDB float64
	ReleaseMS   float64
}

// ProcessingParameters is the fully specified DSP configuration the
// generator produces from a biased coordinate and drives the C5 pipeline
// with.
type ProcessingParameters struct {
	TargetLUFS   float64
	PeakTargetDB float64

	EQ      EQCurve
	EQBlend float64

	Compression CompressionParams
	Expansion   ExpansionParams

	DynamicsBlend float64

	Limiter LimiterParams

	StereoWidthTarget float64
}

const (
	freqLowShelf  = 200.0
	freqLowMid    = 500.0
	freqMid       = 1500.0
	freqHighMid   = 4000.0
	freqHighShelf = 8000.0
)

// Generate derives ProcessingParameters from a fingerprint and an optional
// preference vector, following the ten numbered steps of §4.4's generator.
func Generate(fp fingerprint.Fingerprint, pref Preference) ProcessingParameters {
	coords := Map(fp)
	coords = Bias(coords, pref) // step 1

	energy := coords.EnergyLevel
	dynamics := coords.DynamicRange

	targetLUFS := clampRange(-16+6*energy-2*dynamics+2*pref.LoudnessBias, -20, -8) // step 2
	peakTarget := clampRange(-1.0+0.7*(1-dynamics)+0.2*pref.LoudnessBias, -1.5, -0.2) // step 3

	eq, blend := generateEQ(fp, pref) // steps 4-5

	compression, expansion := generateDynamicsStrategy(dynamics) // steps 6-7

	dynamicsBlend := clampRange(0.3+0.4*(1-dynamics)-0.2*pref.DynamicBias, 0.2, 0.9) // step 8

	limiter := LimiterParams{
		ThresholdDB: clampRange(-3+1.5*(1-dynamics), -3, -1.5),
		ReleaseMS:   120 - 40*dynamics,
	} // step 9

	stereoTarget := generateStereoWidthTarget(fp.StereoWidth, pref.StereoBias) // step 10

	return ProcessingParameters{
		TargetLUFS:        targetLUFS,
		PeakTargetDB:      peakTarget,
		EQ:                eq,
		EQBlend:           blend,
		Compression:       compression,
		Expansion:         expansion,
		DynamicsBlend:     dynamicsBlend,
		Limiter:           limiter,
		StereoWidthTarget: stereoTarget,
	}
}

func generateDynamicsStrategy(dynamics float64) (CompressionParams, ExpansionParams) {
	switch {
	case dynamics >= 0.7:
		return CompressionParams{Ratio: 1.5, ThresholdDB: -26, AttackMS: 10, ReleaseMS: 100, Amount: 0.3}, ExpansionParams{}
	case dynamics >= 0.4:
		return CompressionParams{Ratio: 1.8, ThresholdDB: -22, AttackMS: 10, ReleaseMS: 100, Amount: 0.5}, ExpansionParams{}
	case dynamics >= 0.3:
		return CompressionParams{Amount: 0}, ExpansionParams{TargetCrestIncreaseDB: 2, Amount: 0.6}
	default:
		return CompressionParams{Amount: 0}, ExpansionParams{TargetCrestIncreaseDB: 4, Amount: 1.0}
	}
}

func generateStereoWidthTarget(currentWidth, stereoBias float64) float64 {
	var target float64
	switch {
	case currentWidth < 0.5:
		target = 0.75
	case currentWidth > 0.85:
		target = 0.75
	default:
		target = currentWidth + 0.05
	}
	target += stereoBias * 0.2
	return clampRange(target, 0.5, 0.9)
}

func clampRange(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
