// Package pcm defines the audio buffer shape shared by every stage of the
// core: fingerprinting, the DSP pipeline, and the chunked streaming
// processor all read and write this same planar representation so that
// mono/stereo and interleaved/planar ingress can be normalized exactly once.
package pcm

import (
	"math"

	"auralis.core/internal/errors"
)

// Buffer holds decoded PCM samples as planar per-channel slices, each in
// [-1.0, 1.0] (out-of-range values are tolerated, not rejected — see the
// safety limiter in internal/pipeline). Channels is 1 (mono) or 2 (stereo).
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    [][]float64 // Samples[channel][frame]
}

// Frames returns the number of sample frames (per-channel length).
func (b Buffer) Frames() int {
	if len(b.Samples) == 0 {
		return 0
	}
	return len(b.Samples[0])
}

// Mono returns a single downmixed channel, averaging stereo channels when
// present. For mono buffers it returns the existing channel without copying.
func (b Buffer) Mono() []float64 {
	if b.Channels == 1 {
		return b.Samples[0]
	}
	left, right := b.Samples[0], b.Samples[1]
	out := make([]float64, len(left))
	for i := range out {
		out[i] = (left[i] + right[i]) / 2
	}
	return out
}

// NewInterleaved builds a Buffer from interleaved samples (L,R,L,R,... for
// stereo; a flat sequence for mono).
func NewInterleaved(data []float64, channels, sampleRate int) (Buffer, error) {
	if channels != 1 && channels != 2 {
		return Buffer{}, errors.NewUnsupportedChannels(channels)
	}
	if channels == 1 {
		return Buffer{SampleRate: sampleRate, Channels: 1, Samples: [][]float64{data}}, nil
	}
	frames := len(data) / 2
	left := make([]float64, frames)
	right := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left[i] = data[2*i]
		right[i] = data[2*i+1]
	}
	return Buffer{SampleRate: sampleRate, Channels: 2, Samples: [][]float64{left, right}}, nil
}

// NewPlanar builds a Buffer directly from per-channel slices.
func NewPlanar(channels [][]float64, sampleRate int) (Buffer, error) {
	if len(channels) != 1 && len(channels) != 2 {
		return Buffer{}, errors.NewUnsupportedChannels(len(channels))
	}
	return Buffer{SampleRate: sampleRate, Channels: len(channels), Samples: channels}, nil
}

// Interleaved returns the buffer flattened to interleaved order, the shape
// most external callers (and tests) construct expected output in.
func (b Buffer) Interleaved() []float64 {
	if b.Channels == 1 {
		return b.Samples[0]
	}
	frames := b.Frames()
	out := make([]float64, frames*2)
	for i := 0; i < frames; i++ {
		out[2*i] = b.Samples[0][i]
		out[2*i+1] = b.Samples[1][i]
	}
	return out
}

// Bytes renders the buffer's interleaved samples as raw IEEE-754 bytes,
// the stable byte sequence the fingerprint cache and extraction worker
// pool hash to derive a cache key from raw audio content.
func (b Buffer) Bytes() []byte {
	samples := b.Interleaved()
	out := make([]byte, 8*len(samples))
	for i, s := range samples {
		bits := math.Float64bits(s)
		for n := 0; n < 8; n++ {
			out[8*i+n] = byte(bits >> (8 * n))
		}
	}
	return out
}

// Clone makes a deep, independently mutable copy of the buffer.
func (b Buffer) Clone() Buffer {
	out := Buffer{SampleRate: b.SampleRate, Channels: b.Channels, Samples: make([][]float64, len(b.Samples))}
	for c, ch := range b.Samples {
		cp := make([]float64, len(ch))
		copy(cp, ch)
		out.Samples[c] = cp
	}
	return out
}
