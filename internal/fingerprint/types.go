// Package fingerprint extracts the 25-dimensional audio feature vector
// that drives recording-type classification and adaptive parameter
// generation. It is the leaf dependency of the core: every other
// component (content analysis, the continuous-space mapper, the
// recording-type detector, the worker pool) consumes its output.
//
// spectral_centroid and spectral_rolloff are stored as raw Hz values, not
// normalized to [0,1]. The original source used both conventions
// interchangeably across files; this implementation picks Hz because the
// continuous-space mapper's documented formula (norm(centroid, 1000, 6000))
// only produces a sensible [0,1] result against a genuine Hz value.
package fingerprint

import "math"

// Fingerprint is the 25-fixed-key feature vector of the data model. All
// fields are always present and finite; percent fields are non-negative.
type Fingerprint struct {
	// Frequency distribution (7) — percent of total band energy, sums to ~100.
	SubBass  float64 `json:"sub_bass"`
	Bass     float64 `json:"bass"`
	LowMid   float64 `json:"low_mid"`
	Mid      float64 `json:"mid"`
	UpperMid float64 `json:"upper_mid"`
	Presence float64 `json:"presence"`
	Air      float64 `json:"air"`

	// Dynamics (3).
	LUFS         float64 `json:"lufs"`
	CrestDB      float64 `json:"crest_db"`
	BassMidRatio float64 `json:"bass_mid_ratio"`

	// Temporal (4).
	TempoBPM         float64 `json:"tempo_bpm"`
	RhythmStability  float64 `json:"rhythm_stability"`
	TransientDensity float64 `json:"transient_density"`
	SilenceRatio     float64 `json:"silence_ratio"`

	// Spectral (3).
	SpectralCentroid float64 `json:"spectral_centroid"`
	SpectralRolloff  float64 `json:"spectral_rolloff"`
	SpectralFlatness float64 `json:"spectral_flatness"`

	// Harmonic (3).
	HarmonicRatio  float64 `json:"harmonic_ratio"`
	PitchStability float64 `json:"pitch_stability"`
	ChromaEnergy   float64 `json:"chroma_energy"`

	// Variation (3).
	DynamicRangeVariation float64 `json:"dynamic_range_variation"`
	LoudnessVariationStd  float64 `json:"loudness_variation_std"`
	PeakConsistency       float64 `json:"peak_consistency"`

	// Stereo (2).
	StereoWidth      float64 `json:"stereo_width"`
	PhaseCorrelation float64 `json:"phase_correlation"`
}

// neutral returns the all-neutral fingerprint used as a fallback whenever
// a sub-feature computation fails, or the input is below the minimum
// analyzable length. Neutral values are typical mid-range values for each
// feature rather than zero, so downstream consumers (recording
// detector, continuous-space mapper) see "average" material instead of
// "silence" material.
func neutral() Fingerprint {
	return Fingerprint{
		SubBass: 8, Bass: 20, LowMid: 18, Mid: 22, UpperMid: 16, Presence: 12, Air: 4,
		LUFS: -18, CrestDB: 12, BassMidRatio: 0,
		TempoBPM: 120, RhythmStability: 0.5, TransientDensity: 0.3, SilenceRatio: 0,
		SpectralCentroid: 2500, SpectralRolloff: 8000, SpectralFlatness: 0.3,
		HarmonicRatio: 0.5, PitchStability: 0.5, ChromaEnergy: 0.5,
		DynamicRangeVariation: 0, LoudnessVariationStd: 0, PeakConsistency: 1,
		StereoWidth: 0.3, PhaseCorrelation: 1,
	}
}

// ToMap renders the fingerprint as the 25-key map required by the
// persistent cache's JSON column and by collaborators that index features
// by name (the recording-type detector and continuous-space mapper both
// do this against the original Python dict-based fingerprint).
func (f Fingerprint) ToMap() map[string]float64 {
	return map[string]float64{
		"sub_bass": f.SubBass, "bass": f.Bass, "low_mid": f.LowMid, "mid": f.Mid,
		"upper_mid": f.UpperMid, "presence": f.Presence, "air": f.Air,
		"lufs": f.LUFS, "crest_db": f.CrestDB, "bass_mid_ratio": f.BassMidRatio,
		"tempo_bpm": f.TempoBPM, "rhythm_stability": f.RhythmStability,
		"transient_density": f.TransientDensity, "silence_ratio": f.SilenceRatio,
		"spectral_centroid": f.SpectralCentroid, "spectral_rolloff": f.SpectralRolloff,
		"spectral_flatness": f.SpectralFlatness,
		"harmonic_ratio":    f.HarmonicRatio, "pitch_stability": f.PitchStability, "chroma_energy": f.ChromaEnergy,
		"dynamic_range_variation": f.DynamicRangeVariation, "loudness_variation_std": f.LoudnessVariationStd,
		"peak_consistency": f.PeakConsistency,
		"stereo_width":     f.StereoWidth, "phase_correlation": f.PhaseCorrelation,
	}
}

// Valid reports whether every field is finite and percent fields are
// non-negative, per the fingerprint invariants.
func (f Fingerprint) Valid() bool {
	for _, v := range f.ToMap() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if f.SubBass < 0 || f.Bass < 0 || f.LowMid < 0 || f.Mid < 0 || f.UpperMid < 0 || f.Presence < 0 || f.Air < 0 {
		return false
	}
	return f.PhaseCorrelation >= -1
}

// Delta reports the per-feature difference a-b, a small diagnostic utility
// adapted from the legacy mastering-fingerprint comparison helper; useful
// for cache regression tests and manual inspection, not part of the core
// classification path.
func Delta(a, b Fingerprint) map[string]float64 {
	am, bm := a.ToMap(), b.ToMap()
	out := make(map[string]float64, len(am))
	for k, v := range am {
		out[k] = v - bm[k]
	}
	return out
}
