package stream

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/cache"
	"auralis.core/internal/fingerprint"
	"auralis.core/internal/pcm"
	"auralis.core/internal/pipeline"
	"auralis.core/internal/space"
)

func sineBuffer(freq float64, sampleRate, frames, channels int, amp float64) pcm.Buffer {
	samples := make([][]float64, channels)
	for c := 0; c < channels; c++ {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		}
		samples[c] = ch
	}
	buf, _ := pcm.NewPlanar(samples, sampleRate)
	return buf
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	c, err := cache.New(t.TempDir(), cache.WithPreloadCount(0))
	require.NoError(t, err)
	return NewProcessor(fingerprint.New(), c, pipeline.NewPipeline(), space.Neutral)
}

func TestPlanChunks_CoversTrackExactlyOnce(t *testing.T) {
	sampleRate := 44100
	totalFrames := int(62.3 * float64(sampleRate))
	stride := int((ChunkDuration - OverlapDuration) * float64(sampleRate))
	overlap := int(OverlapDuration * float64(sampleRate))
	context := int(ContextDuration * float64(sampleRate))

	spans := planChunks(totalFrames, stride, overlap, context)
	require.NotEmpty(t, spans)

	var covered int
	for i, s := range spans {
		if i == 0 {
			require.Equal(t, 0, s.emitStart)
		} else {
			require.Equal(t, spans[i-1].emitEnd, s.emitStart)
		}
		covered = s.emitEnd
	}
	require.Equal(t, totalFrames, covered)
}

func TestProcess_PreservesTotalSampleCount(t *testing.T) {
	sampleRate := 44100
	frames := int(40.5 * float64(sampleRate))
	buf := sineBuffer(220, sampleRate, frames, 2, 0.4)

	p := newTestProcessor(t)
	out, err := p.Process(buf)
	require.NoError(t, err)
	require.Equal(t, buf.Frames(), out.Frames())
	require.Equal(t, buf.Channels, out.Channels)
}

func TestProcess_NoDiscontinuityAtChunkBoundaries(t *testing.T) {
	sampleRate := 44100
	frames := int(35 * float64(sampleRate))
	buf := sineBuffer(330, sampleRate, frames, 1, 0.3)

	p := newTestProcessor(t)
	out, err := p.Process(buf)
	require.NoError(t, err)

	mono := out.Samples[0]
	for i := 1; i < len(mono); i++ {
		require.Less(t, math.Abs(mono[i]-mono[i-1]), 0.5)
	}
}

func TestProcess_ShortTrackShorterThanOneChunk(t *testing.T) {
	sampleRate := 44100
	frames := int(3 * float64(sampleRate))
	buf := sineBuffer(440, sampleRate, frames, 1, 0.5)

	p := newTestProcessor(t)
	out, err := p.Process(buf)
	require.NoError(t, err)
	require.Equal(t, frames, out.Frames())
}

func TestProcess_ReusesTrackLevelFingerprint(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.New(dir, cache.WithPreloadCount(0))
	require.NoError(t, err)
	proc := NewProcessor(fingerprint.New(), c, pipeline.NewPipeline(), space.Neutral)

	sampleRate := 44100
	frames := int(20 * float64(sampleRate))
	buf := sineBuffer(500, sampleRate, frames, 1, 0.3)

	_, err = proc.Process(buf)
	require.NoError(t, err)
	statsAfterFirst := c.Stats()

	_, err = proc.Process(buf)
	require.NoError(t, err)
	statsAfterSecond := c.Stats()

	require.Greater(t, statsAfterSecond.Hits, statsAfterFirst.Hits)
	require.NoError(t, os.Remove(filepath.Join(dir, "fingerprints.db")))
}

func TestEqualPowerCrossfade_EndpointsMatchInputs(t *testing.T) {
	prior := []float64{1, 1, 1, 1}
	next := []float64{0.5, 0.5, 0.5, 0.5}
	out := equalPowerCrossfade(prior, next)
	require.InDelta(t, prior[0], out[0], 1e-6)
	require.InDelta(t, next[len(next)-1], out[len(out)-1], 1e-2)
}

func TestLevelWatchdogGain_NoCorrectionWithinBound(t *testing.T) {
	flat := make([]float64, 1000)
	for i := range flat {
		flat[i] = 0.3
	}
	require.Equal(t, 1.0, levelWatchdogGain(flat, flat))
}

func TestLevelWatchdogGain_ConstrainsLoudJump(t *testing.T) {
	quiet := make([]float64, 1000)
	loud := make([]float64, 1000)
	for i := range quiet {
		quiet[i] = 0.05
		loud[i] = 0.9
	}
	gain := levelWatchdogGain(quiet, loud)
	require.Less(t, gain, 1.0)
}
