// Package recording implements the recording-type detector (the second
// half of C3): scoring a fingerprint against Studio/Bootleg/Metal
// profiles and generating the AdaptiveParameters whose bass/mid/treble
// adjustments guide the DSP pipeline's EQ stage (via pipeline.GuidanceFrom).
//
// Scoring constants and the per-class AdaptiveParameters baselines are
// grounded directly on the original recording_type_detector.py rules (see
// spec.md §4.3's distillation of that file), including its spectral
// centroid thresholds, interpreted as raw Hz per SPEC_FULL.md §10.1.
package recording

// Type is the detected recording classification.
type Type string

const (
	Studio  Type = "studio"
	Bootleg Type = "bootleg"
	Metal   Type = "metal"
	Unknown Type = "unknown"
)

// StereoStrategy is the stereo-width guidance tag.
type StereoStrategy string

const (
	StereoNarrow   StereoStrategy = "narrow"
	StereoMaintain StereoStrategy = "maintain"
	StereoExpand   StereoStrategy = "expand"
)

// Philosophy is the categorical mastering intent.
type Philosophy string

const (
	PhilosophyEnhance Philosophy = "enhance"
	PhilosophyCorrect Philosophy = "correct"
	PhilosophyPunch   Philosophy = "punch"
)

// AdaptiveParameters carries the per-class EQ/dynamics/stereo guidance
// produced once a recording type has been chosen.
type AdaptiveParameters struct {
	BassAdjustmentDB   float64
	MidAdjustmentDB    float64
	TrebleAdjustmentDB float64

	StereoStrategy StereoStrategy

	TargetCrestDB float64
	TargetLUFS    float64

	Philosophy Philosophy
	Confidence float64
}

// confidenceThreshold is the minimum top score required to report a
// non-Unknown type.
const confidenceThreshold = 0.65
