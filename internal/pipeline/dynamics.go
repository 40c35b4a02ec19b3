package pipeline

import (
	"math"

	"auralis.core/internal/dsp"
	"auralis.core/internal/space"
)

// ApplyCompression implements the clip-blend compressor strategy from
// §4.5.3: soft-clip the input at a threshold derived from the ratio, then
// blend dry/wet by amount. Guarantees peak does not increase, since
// soft_clip never raises a sample's magnitude above ceiling and the dry
// signal is already within range.
func ApplyCompression(audio []float64, params space.CompressionParams) []float64 {
	if params.Amount <= 0 {
		out := make([]float64, len(audio))
		copy(out, audio)
		return out
	}

	ratio := params.Ratio
	if ratio < 1 {
		ratio = 1
	}
	threshold := 0.8 - 0.1*(ratio-1)
	if threshold < 0.3 {
		threshold = 0.3
	}

	compressed := dsp.SoftClip(audio, threshold, 0.95)

	out := make([]float64, len(audio))
	for i := range audio {
		out[i] = (1-params.Amount)*audio[i] + params.Amount*compressed[i]
	}
	return out
}

// ApplyExpansion implements the RMS-reduction expansion strategy from
// §4.5.4: each sample is attenuated by up to TargetCrestIncreaseDB*Amount,
// scaled by how far below the peak it sits (full attenuation at silence,
// none at the peak), so RMS drops while the peak stays fixed and crest
// increases. The applied gain is always <=1.
func ApplyExpansion(audio []float64, params space.ExpansionParams) []float64 {
	peak := dsp.Peak(audio)
	if params.Amount <= 0 || peak <= 1e-10 {
		out := make([]float64, len(audio))
		copy(out, audio)
		return out
	}

	maxAttenuationDB := params.TargetCrestIncreaseDB * params.Amount
	out := make([]float64, len(audio))
	for i, s := range audio {
		out[i] = s * dsp.ToLinear(-maxAttenuationDB*(1-math.Abs(s)/peak))
	}
	return out
}
