package fingerprint

import "auralis.core/internal/dsp"

func lufs(mono []float64, sampleRate int) float64 {
	return dsp.LUFS(mono, sampleRate)
}

func crestDB(mono []float64) float64 {
	return dsp.CrestDB(mono)
}
