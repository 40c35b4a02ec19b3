package recording

import "auralis.core/internal/fingerprint"

// Detect classifies a fingerprint's recording type and produces the
// adaptive EQ/dynamics/stereo parameters that should guide further
// processing. When no candidate clears confidenceThreshold, Type is
// Unknown and AdaptiveParameters fall back to a conservative "enhance"
// profile derived from the fingerprint's own measured crest and loudness.
func Detect(fp fingerprint.Fingerprint) (Type, AdaptiveParameters) {
	s := score(fp)

	t, confidence := best(s)
	if confidence < confidenceThreshold {
		t = Unknown
	}

	return t, parametersFor(t, fp, confidence)
}

func best(s scores) (Type, float64) {
	t, v := Studio, s.studio
	if s.bootleg > v {
		t, v = Bootleg, s.bootleg
	}
	if s.metal > v {
		t, v = Metal, s.metal
	}
	return t, v
}
