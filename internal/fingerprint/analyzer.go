package fingerprint

import (
	"math"

	"go.uber.org/zap"

	"auralis.core/internal/errors"
	"auralis.core/internal/logger"
	"auralis.core/internal/pcm"
)

// Analyzer extracts a Fingerprint from a pcm.Buffer. It is safe for
// concurrent use: all state is read-only after construction.
type Analyzer struct {
	cfg Config
}

// New builds an Analyzer from the given options.
func New(opts ...Option) *Analyzer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Analyzer{cfg: cfg}
}

// Analyze computes the 25-dimensional fingerprint of buf. It never fails
// for short or silent input — those degrade to neutral defaults — but
// returns errors.InvalidInput for a non-positive sample rate or non-finite
// samples, per the error-handling design.
func (a *Analyzer) Analyze(buf pcm.Buffer) (Fingerprint, error) {
	if buf.SampleRate <= 0 {
		return Fingerprint{}, errors.NewInvalidInput("sample rate must be positive")
	}
	if buf.Channels != 1 && buf.Channels != 2 {
		return Fingerprint{}, errors.NewUnsupportedChannels(buf.Channels)
	}
	if buf.Frames() == 0 {
		return neutral(), nil
	}

	mono := buf.Mono()
	if !allFinite(mono) {
		return Fingerprint{}, errors.NewInvalidInput("non-finite sample in input audio")
	}
	if len(mono) < a.cfg.MinSamples {
		return neutral(), nil
	}

	analysisMono := a.selectWindow(mono, buf.SampleRate)

	fp := neutral()

	a.safe("frequency_bands", func() error {
		bands, bassMidRatio, err := computeFrequencyBands(analysisMono, buf.SampleRate, a.cfg.FFTSize)
		if err != nil {
			return err
		}
		fp.SubBass, fp.Bass, fp.LowMid, fp.Mid, fp.UpperMid, fp.Presence, fp.Air = bands[0], bands[1], bands[2], bands[3], bands[4], bands[5], bands[6]
		fp.BassMidRatio = bassMidRatio
		return nil
	})

	a.safe("spectral_shape", func() error {
		centroid, rolloff, flatness, err := computeSpectralShape(analysisMono, buf.SampleRate, a.cfg.FFTSize)
		if err != nil {
			return err
		}
		fp.SpectralCentroid, fp.SpectralRolloff, fp.SpectralFlatness = centroid, rolloff, flatness
		return nil
	})

	a.safe("dynamics", func() error {
		fp.LUFS = lufs(analysisMono, buf.SampleRate)
		fp.CrestDB = crestDB(analysisMono)
		return nil
	})

	a.safe("temporal", func() error {
		tempo, stability, density, silence, err := computeTemporal(analysisMono, buf.SampleRate)
		if err != nil {
			return err
		}
		fp.TempoBPM, fp.RhythmStability, fp.TransientDensity, fp.SilenceRatio = tempo, stability, density, silence
		return nil
	})

	a.safe("harmonic", func() error {
		ratio, pitchStability, chroma, err := computeHarmonic(analysisMono, buf.SampleRate, a.cfg.FFTSize)
		if err != nil {
			return err
		}
		fp.HarmonicRatio, fp.PitchStability, fp.ChromaEnergy = ratio, pitchStability, chroma
		return nil
	})

	a.safe("variation", func() error {
		drVar, loudVar, peakCons, err := computeVariation(analysisMono, buf.SampleRate)
		if err != nil {
			return err
		}
		fp.DynamicRangeVariation, fp.LoudnessVariationStd, fp.PeakConsistency = drVar, loudVar, peakCons
		return nil
	})

	a.safe("stereo", func() error {
		width, corr, err := computeStereo(buf)
		if err != nil {
			return err
		}
		fp.StereoWidth, fp.PhaseCorrelation = width, corr
		return nil
	})

	return fp, nil
}

// safe runs fn, recovering from panics and swallowing returned errors: a
// failing sub-feature degrades the fingerprint (its fields keep their
// neutral defaults) rather than aborting the whole analysis, per the
// AnalysisDegraded error-handling policy.
func (a *Analyzer) safe(stage string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WarnWithFields("fingerprint sub-feature panicked, using neutral default",
				logger.WithStage(stage), zap.Any("panic", r))
		}
	}()
	if err := fn(); err != nil {
		logger.WarnWithFields("fingerprint sub-feature degraded, using neutral default",
			logger.WithStage(stage), zap.Error(err))
	}
}

// selectWindow returns the slice of mono samples the analyzer should run
// its sub-features over: the whole track in FullTrack mode, or a
// concatenation of fixed windows at regular intervals in Sampling mode.
func (a *Analyzer) selectWindow(mono []float64, sampleRate int) []float64 {
	if a.cfg.Mode == FullTrack {
		return mono
	}
	windowLen := int(a.cfg.WindowSeconds * float64(sampleRate))
	interval := int(a.cfg.IntervalSeconds * float64(sampleRate))
	if windowLen <= 0 || interval <= 0 || windowLen >= len(mono) {
		return mono
	}

	out := make([]float64, 0, windowLen*8)
	for start := 0; start < len(mono); start += interval {
		end := start + windowLen
		if end > len(mono) {
			end = len(mono)
		}
		out = append(out, mono[start:end]...)
		if end == len(mono) {
			break
		}
	}
	if len(out) == 0 {
		return mono
	}
	return out
}

func allFinite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
