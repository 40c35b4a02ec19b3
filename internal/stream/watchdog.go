package stream

import "auralis.core/internal/dsp"

// levelWatchdogGain compares the RMS of a new chunk's head against the
// prior chunk's tail and returns a gain to apply to the new chunk so the
// head never sits more than MaxLevelChangeDB above the tail, per §4.6
// step 5. Only rises are bounded: a head quieter than the tail by any
// amount gets no correction. Returns 1.0 (no correction) when both
// regions are silent or already within bound.
func levelWatchdogGain(priorTail, newHead []float64) float64 {
	priorDB := dsp.ToDB(dsp.RMS(priorTail))
	newDB := dsp.ToDB(dsp.RMS(newHead))
	delta := newDB - priorDB
	if delta <= MaxLevelChangeDB {
		return 1.0
	}
	correctedDB := priorDB + MaxLevelChangeDB
	return dsp.ToLinear(correctedDB - newDB)
}

// applyGain scales every channel of buf by gain in place semantics
// avoided — returns new per-channel slices.
func applyGain(channels [][]float64, gain float64) [][]float64 {
	if gain == 1.0 {
		return channels
	}
	out := make([][]float64, len(channels))
	for c, ch := range channels {
		scaled := make([]float64, len(ch))
		for i, s := range ch {
			scaled[i] = s * gain
		}
		out[c] = scaled
	}
	return out
}
