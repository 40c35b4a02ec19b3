package fingerprint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/pcm"
)

func sineWave(freq float64, sampleRate, frames int, amplitude float64) []float64 {
	out := make([]float64, frames)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestAnalyze_ReturnsAllKeysFinite(t *testing.T) {
	sr := 44100
	mono := sineWave(440, sr, sr*2, 0.5)
	buf, err := pcm.NewInterleaved(mono, 1, sr)
	require.NoError(t, err)

	fp, err := New().Analyze(buf)
	require.NoError(t, err)
	require.True(t, fp.Valid())

	m := fp.ToMap()
	require.Len(t, m, 25)
}

func TestAnalyze_Deterministic(t *testing.T) {
	sr := 44100
	mono := sineWave(220, sr, sr*3, 0.4)
	buf, _ := pcm.NewInterleaved(mono, 1, sr)

	a := New()
	first, err := a.Analyze(buf)
	require.NoError(t, err)
	second, err := a.Analyze(buf)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestAnalyze_ShortInputReturnsNeutral(t *testing.T) {
	sr := 44100
	buf, _ := pcm.NewInterleaved([]float64{0.1, 0.2, -0.1}, 1, sr)

	fp, err := New().Analyze(buf)
	require.NoError(t, err)
	require.Equal(t, neutral(), fp)
}

func TestAnalyze_EmptyAudioReturnsNeutral(t *testing.T) {
	buf, _ := pcm.NewPlanar([][]float64{{}}, 44100)
	fp, err := New().Analyze(buf)
	require.NoError(t, err)
	require.Equal(t, neutral(), fp)
}

func TestAnalyze_ZeroSampleRateIsInvalid(t *testing.T) {
	buf := pcm.Buffer{SampleRate: 0, Channels: 1, Samples: [][]float64{{0.1, 0.2, 0.3}}}
	_, err := New().Analyze(buf)
	require.Error(t, err)
}

func TestAnalyze_NonFiniteSampleIsInvalid(t *testing.T) {
	sr := 44100
	mono := sineWave(440, sr, sr, 0.5)
	mono[100] = math.NaN()
	buf, _ := pcm.NewInterleaved(mono, 1, sr)

	_, err := New().Analyze(buf)
	require.Error(t, err)
}

func TestAnalyze_MonoHasZeroWidth(t *testing.T) {
	sr := 44100
	mono := sineWave(440, sr, sr*2, 0.5)
	buf, _ := pcm.NewInterleaved(mono, 1, sr)

	fp, err := New().Analyze(buf)
	require.NoError(t, err)
	require.Equal(t, 0.0, fp.StereoWidth)
	require.Equal(t, 1.0, fp.PhaseCorrelation)
}

func TestAnalyze_DecorrelatedStereoHasHighWidth(t *testing.T) {
	sr := 44100
	left := sineWave(440, sr, sr*2, 0.5)
	right := sineWave(441, sr, sr*2, 0.5)
	buf, err := pcm.NewPlanar([][]float64{left, right}, sr)
	require.NoError(t, err)

	fp, err := New().Analyze(buf)
	require.NoError(t, err)
	require.Greater(t, fp.StereoWidth, 0.0)
}

func TestDelta_NegativeWhenSecondIsLouder(t *testing.T) {
	a := neutral()
	b := neutral()
	b.LUFS += 2
	d := Delta(a, b)
	require.InDelta(t, -2, d["lufs"], 1e-9)
}
