package space

import (
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/fingerprint"
)

func darkBassHeavyFingerprint() fingerprint.Fingerprint {
	fp := fingerprint.Fingerprint{}
	fp.Bass = 38
	fp.Air = 3
	fp.SpectralCentroid = 1200
	fp.Presence = 10
	fp.CrestDB = 9
	fp.LoudnessVariationStd = 1
	fp.LUFS = -20
	fp.StereoWidth = 0.3
	return fp
}

func TestMap_ProducesClampedCoordinates(t *testing.T) {
	coords := Map(darkBassHeavyFingerprint())
	require.GreaterOrEqual(t, coords.SpectralBalance, 0.0)
	require.LessOrEqual(t, coords.SpectralBalance, 1.0)
	require.GreaterOrEqual(t, coords.DynamicRange, 0.0)
	require.LessOrEqual(t, coords.DynamicRange, 1.0)
	require.GreaterOrEqual(t, coords.EnergyLevel, 0.0)
	require.LessOrEqual(t, coords.EnergyLevel, 1.0)
}

func TestMap_ExtremeInputsStayClamped(t *testing.T) {
	fp := fingerprint.Fingerprint{Bass: 1000, Air: -1000, SpectralCentroid: 1e9, LUFS: -1000, CrestDB: -1000}
	coords := Map(fp)
	require.Equal(t, 0.0, coords.EnergyLevel)
}

func TestBias_NeutralPreferenceIsNoOp(t *testing.T) {
	coords := Map(darkBassHeavyFingerprint())
	biased := Bias(coords, Neutral)
	require.InDelta(t, coords.SpectralBalance, biased.SpectralBalance, 1e-9)
	require.InDelta(t, coords.DynamicRange, biased.DynamicRange, 1e-9)
	require.InDelta(t, coords.EnergyLevel, biased.EnergyLevel, 1e-9)
}

func TestGenerate_ParametersWithinDocumentedRanges(t *testing.T) {
	p := Generate(darkBassHeavyFingerprint(), Neutral)

	require.GreaterOrEqual(t, p.TargetLUFS, -20.0)
	require.LessOrEqual(t, p.TargetLUFS, -8.0)
	require.GreaterOrEqual(t, p.PeakTargetDB, -1.5)
	require.LessOrEqual(t, p.PeakTargetDB, -0.2)
	require.GreaterOrEqual(t, p.EQBlend, 0.5)
	require.LessOrEqual(t, p.EQBlend, 1.0)
	require.GreaterOrEqual(t, p.DynamicsBlend, 0.2)
	require.LessOrEqual(t, p.DynamicsBlend, 0.9)
	require.GreaterOrEqual(t, p.StereoWidthTarget, 0.5)
	require.LessOrEqual(t, p.StereoWidthTarget, 0.9)

	require.Equal(t, 200.0, p.EQ.LowShelf.FrequencyHz)
	require.Equal(t, 8000.0, p.EQ.HighShelf.FrequencyHz)
	require.LessOrEqual(t, p.EQ.LowShelf.GainDB, maxLowShelfGain)
}

func TestGenerate_BassHeavyMaterialGetsNoLowShelfBoost(t *testing.T) {
	p := Generate(darkBassHeavyFingerprint(), Neutral)
	require.Equal(t, 0.0, p.EQ.LowShelf.GainDB)
}

func TestGenerate_BrickwalledMaterialGetsExpansionNotCompression(t *testing.T) {
	fp := darkBassHeavyFingerprint()
	fp.CrestDB = 4
	fp.LoudnessVariationStd = 0
	fp.DynamicRangeVariation = 0
	p := Generate(fp, Neutral)
	require.Equal(t, 0.0, p.Compression.Amount)
	require.Greater(t, p.Expansion.Amount, 0.0)
}

func TestGenerate_AlreadyDynamicMaterialGetsCompressionNotExpansion(t *testing.T) {
	fp := darkBassHeavyFingerprint()
	fp.CrestDB = 20
	fp.LoudnessVariationStd = 5
	fp.DynamicRangeVariation = 1
	p := Generate(fp, Neutral)
	require.Equal(t, 0.0, p.Expansion.Amount)
	require.Greater(t, p.Compression.Amount, 0.0)
}

func TestPresetPreference_UnknownNameIsNeutral(t *testing.T) {
	require.Equal(t, Neutral, PresetPreference("nonexistent"))
}

func TestPresetPreference_AllLegacyNamesResolve(t *testing.T) {
	for _, name := range []string{"adaptive", "gentle", "warm", "bright", "punchy", "live"} {
		_, ok := legacyPresets[name]
		require.True(t, ok, name)
	}
}
