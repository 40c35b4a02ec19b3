package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/dsp"
	"auralis.core/internal/fingerprint"
	"auralis.core/internal/pcm"
	"auralis.core/internal/recording"
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

func TestPipeline_PreservesSampleAndChannelCount(t *testing.T) {
	buf := sineBuffer(440, 44100, 44100, 2, 0.3)
	fp := fingerprint.Fingerprint{Bass: 20, LowMid: 18, Mid: 22, Presence: 12, Air: 4, CrestDB: 12, LUFS: -18, StereoWidth: 0.4}
	params := space.Generate(fp, space.Neutral)
	guidance := AdaptiveGuidance{Confidence: 0}

	out := NewPipeline().Process(buf, params, guidance)

	require.Equal(t, buf.Channels, out.Channels)
	require.Equal(t, buf.Frames(), out.Frames())
}

func TestPipeline_ExitPeakNeverExceedsCeiling(t *testing.T) {
	buf := sineBuffer(1000, 44100, 44100, 2, 0.99)
	fp := fingerprint.Fingerprint{Bass: 5, LowMid: 5, Mid: 5, Presence: 5, Air: 1, CrestDB: 2, LUFS: -6, StereoWidth: 0.9}
	params := space.Generate(fp, space.Neutral)
	guidance := AdaptiveGuidance{Confidence: 0.8}

	out := NewPipeline().Process(buf, params, guidance)

	require.LessOrEqual(t, dsp.Peak(out.Interleaved()), 0.99)
}

func TestPipeline_NoNaNOrInfInOutput(t *testing.T) {
	buf := sineBuffer(220, 44100, 22050, 1, 0.5)
	fp := fingerprint.Fingerprint{Bass: 20, LowMid: 18, Mid: 22, Presence: 12, Air: 4, CrestDB: 12, LUFS: -18}
	params := space.Generate(fp, space.Neutral)

	out := NewPipeline().Process(buf, params, AdaptiveGuidance{})

	for _, s := range out.Interleaved() {
		require.False(t, math.IsNaN(s))
		require.False(t, math.IsInf(s, 0))
	}
}

func TestPipeline_WithRecordingGuidance(t *testing.T) {
	fp := fingerprint.Fingerprint{Bass: 20, LowMid: 18, Mid: 22, Presence: 12, Air: 4, CrestDB: 12, LUFS: -18,
		SpectralCentroid: 450, BassMidRatio: 14, StereoWidth: 0.2}
	recType, adaptive := recording.Detect(fp)
	require.Equal(t, recording.Bootleg, recType)

	buf := sineBuffer(600, 44100, 44100, 1, 0.2)
	params := space.Generate(fp, space.Neutral)
	out := NewPipeline().Process(buf, params, GuidanceFrom(adaptive))

	require.Equal(t, buf.Frames(), out.Frames())
}

func TestApplyEQ_PreservesLength(t *testing.T) {
	audio := make([]float64, 4410)
	for i := range audio {
		audio[i] = math.Sin(2 * math.Pi * 300 * float64(i) / 44100)
	}
	curve := space.EQCurve{
		LowShelf:  space.EQBand{FrequencyHz: 200, GainDB: 3},
		LowMid:    space.EQBand{FrequencyHz: 500, GainDB: 0},
		Mid:       space.EQBand{FrequencyHz: 1500, GainDB: 0},
		HighMid:   space.EQBand{FrequencyHz: 4000, GainDB: 0},
		HighShelf: space.EQBand{FrequencyHz: 8000, GainDB: 2},
	}
	out := ApplyEQ(audio, 44100, curve, 0.8, 0, 0, 0, 0.5)
	require.Len(t, out, len(audio))
}

func TestApplyCompression_NeverIncreasesPeak(t *testing.T) {
	audio := make([]float64, 1000)
	for i := range audio {
		audio[i] = 0.9 * math.Sin(2*math.Pi*100*float64(i)/44100)
	}
	out := ApplyCompression(audio, space.CompressionParams{Ratio: 3, Amount: 0.8})
	require.LessOrEqual(t, dsp.Peak(out), dsp.Peak(audio)+1e-9)
}

func TestApplyExpansion_IncreasesCrest(t *testing.T) {
	audio := make([]float64, 44100)
	for i := range audio {
		audio[i] = 0.7 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}
	before := dsp.CrestDB(audio)
	out := ApplyExpansion(audio, space.ExpansionParams{TargetCrestIncreaseDB: 4, Amount: 1.0})
	after := dsp.CrestDB(out)
	require.Greater(t, after, before)
}

func TestApplySafetyLimiter_CapsAtCeiling(t *testing.T) {
	audio := make([]float64, 100)
	for i := range audio {
		audio[i] = 1.5
		if i%2 == 0 {
			audio[i] = -1.5
		}
	}
	out := ApplySafetyLimiter(audio)
	require.LessOrEqual(t, dsp.Peak(out), 0.95+1e-9)
}
