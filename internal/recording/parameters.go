package recording

import "auralis.core/internal/fingerprint"

// studioCentroidHz, bootlegCentroidHz and metalCentroidHz are the
// representative centroid for each class, used to fine-tune the base
// AdaptiveParameters toward how far the actual fingerprint sits from a
// "typical" member of the class.
const (
	studioCentroidHz  = 665.0
	bootlegCentroidHz = 400.0
	metalCentroidHz   = 1400.0
)

func parametersFor(t Type, fp fingerprint.Fingerprint, confidence float64) AdaptiveParameters {
	switch t {
	case Studio:
		return fineTune(AdaptiveParameters{
			BassAdjustmentDB:   0.0,
			MidAdjustmentDB:    0.0,
			TrebleAdjustmentDB: 0.0,
			StereoStrategy:     StereoMaintain,
			TargetCrestDB:      14.0,
			TargetLUFS:         -14.0,
			Philosophy:         PhilosophyEnhance,
			Confidence:         confidence,
		}, fp.SpectralCentroid, studioCentroidHz)
	case Bootleg:
		return fineTune(AdaptiveParameters{
			BassAdjustmentDB:   -4.0,
			MidAdjustmentDB:    1.0,
			TrebleAdjustmentDB: 5.0,
			StereoStrategy:     StereoExpand,
			TargetCrestDB:      11.0,
			TargetLUFS:         -16.0,
			Philosophy:         PhilosophyCorrect,
			Confidence:         confidence,
		}, fp.SpectralCentroid, bootlegCentroidHz)
	case Metal:
		return fineTune(AdaptiveParameters{
			BassAdjustmentDB:   4.0,
			MidAdjustmentDB:    -1.0,
			TrebleAdjustmentDB: -3.0,
			StereoStrategy:     StereoNarrow,
			TargetCrestDB:      6.0,
			TargetLUFS:         -9.0,
			Philosophy:         PhilosophyPunch,
			Confidence:         confidence,
		}, fp.SpectralCentroid, metalCentroidHz)
	default:
		return AdaptiveParameters{
			StereoStrategy: StereoMaintain,
			TargetCrestDB:  fp.CrestDB,
			TargetLUFS:     fp.LUFS,
			Philosophy:     PhilosophyEnhance,
			Confidence:     confidence,
		}
	}
}

// fineTune scales a class's bass and treble adjustments by up to ±10%
// (a factor of 1 + 0.2*deviation, with deviation clamped to ±0.5) based on
// how far the actual centroid sits from the class's representative
// centroid, normalized against that centroid itself — a centroid at the
// class archetype gets the base adjustment; one above it gets a slightly
// stronger push in the same direction, one below it a slightly weaker one.
func fineTune(p AdaptiveParameters, actualHz, classHz float64) AdaptiveParameters {
	if classHz == 0 {
		return p
	}
	deviation := (actualHz - classHz) / classHz
	if deviation > 0.5 {
		deviation = 0.5
	} else if deviation < -0.5 {
		deviation = -0.5
	}
	factor := 1.0 + 0.2*deviation

	p.BassAdjustmentDB *= factor
	p.TrebleAdjustmentDB *= factor
	return p
}
