package content

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/pcm"
)

func sine(freq float64, sampleRate, frames int, amp float64) []float64 {
	out := make([]float64, frames)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func TestAnalyze_ProducesSaneProfile(t *testing.T) {
	sr := 44100
	buf, err := pcm.NewInterleaved(sine(440, sr, sr*2, 0.5), 1, sr)
	require.NoError(t, err)

	p := Analyze(buf)
	require.Greater(t, p.RMS, 0.0)
	require.Greater(t, p.Peak, 0.0)
	require.NotEqual(t, EnergyLevel(""), p.Energy)
}

func TestAnalyzeQuick_SkipsTempo(t *testing.T) {
	sr := 44100
	buf, _ := pcm.NewInterleaved(sine(220, sr, sr, 0.4), 1, sr)
	p := AnalyzeQuick(buf)
	require.Equal(t, 0.0, p.TempoBPM)
}

func TestClassifyGenre_LowConfidenceDefaultsToPop(t *testing.T) {
	genre, confidence := ClassifyGenre(Profile{})
	if confidence < genreConfidenceThreshold {
		require.Equal(t, GenrePop, genre)
		require.Equal(t, 0.5, confidence)
	}
}

type failingClassifier struct{}

func (failingClassifier) Classify(context.Context, Profile) (Genre, float64, error) {
	return "", 0, errors.New("service unavailable")
}

func TestClassifyWithFallback_FallsBackOnError(t *testing.T) {
	genre, confidence := ClassifyWithFallback(context.Background(), Profile{TempoBPM: 120, CrestDB: 9}, failingClassifier{})
	require.NotEmpty(t, genre)
	require.GreaterOrEqual(t, confidence, 0.0)
}

func TestClassifyWithFallback_NilPrimaryUsesRuleBased(t *testing.T) {
	genre, _ := ClassifyWithFallback(context.Background(), Profile{}, nil)
	require.NotEmpty(t, genre)
}
