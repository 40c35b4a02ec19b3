package recording

import "auralis.core/internal/fingerprint"

// scores holds the raw, capped [0,1] score for each candidate type.
type scores struct {
	studio  float64
	bootleg float64
	metal   float64
}

// score evaluates the three candidate-type rules against a fingerprint.
// Each rule accumulates independent bonuses for centroid placement, bass
// balance, stereo width and crest factor, capped at 1.0 — mirroring the
// additive bonus structure of the original per-class scoring functions.
func score(fp fingerprint.Fingerprint) scores {
	return scores{
		studio:  scoreStudio(fp),
		bootleg: scoreBootleg(fp),
		metal:   scoreMetal(fp),
	}
}

func scoreStudio(fp fingerprint.Fingerprint) float64 {
	var s float64

	centroid := fp.SpectralCentroid
	if inRange(centroid, 600, 730) || inRange(centroid, 7500, 8000) {
		s += 0.35
	}

	if fp.BassMidRatio >= -2 && fp.BassMidRatio <= 6 {
		s += 0.20
	}

	if fp.StereoWidth >= 0.3 && fp.StereoWidth <= 0.5 {
		s += 0.20
	}

	if fp.CrestDB >= 10 && fp.CrestDB <= 20 {
		s += 0.10
	}

	return cap1(s)
}

func scoreBootleg(fp fingerprint.Fingerprint) float64 {
	var s float64

	switch {
	case fp.SpectralCentroid < 500:
		s += 0.4
	case fp.SpectralCentroid < 600:
		s += 0.2
	}

	if fp.BassMidRatio > 12 {
		s += 0.4
	}

	if fp.StereoWidth < 0.3 {
		s += 0.2
	}

	return cap1(s)
}

func scoreMetal(fp fingerprint.Fingerprint) float64 {
	var s float64

	switch {
	case fp.SpectralCentroid > 1000:
		s += 0.4
	case fp.SpectralCentroid > 800:
		s += 0.2
	}

	if fp.BassMidRatio >= 8 && fp.BassMidRatio <= 11 {
		s += 0.2
	}

	if fp.StereoWidth > 0.35 {
		s += 0.2
	}

	if fp.CrestDB < 4.5 {
		s += 0.2
	}

	return cap1(s)
}

func inRange(x, lo, hi float64) bool { return x >= lo && x <= hi }

func cap1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
