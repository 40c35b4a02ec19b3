package pipeline

import (
	"time"

	"go.uber.org/zap"

	"auralis.core/internal/dsp"
	"auralis.core/internal/logger"
	"auralis.core/internal/metrics"
	"auralis.core/internal/pcm"
	"auralis.core/internal/recording"
	"auralis.core/internal/space"
)

// AdaptiveGuidance carries the recording-type detector's EQ fine-tuning
// into the pipeline, blended in with weight min(confidence, 0.7) at the
// EQ stage per §4.5.2.
type AdaptiveGuidance struct {
	BassAdjustmentDB   float64
	MidAdjustmentDB    float64
	TrebleAdjustmentDB float64
	Confidence         float64
}

// GuidanceFrom adapts recording.AdaptiveParameters into the pipeline's
// narrower AdaptiveGuidance shape.
func GuidanceFrom(p recording.AdaptiveParameters) AdaptiveGuidance {
	return AdaptiveGuidance{
		BassAdjustmentDB:   p.BassAdjustmentDB,
		MidAdjustmentDB:    p.MidAdjustmentDB,
		TrebleAdjustmentDB: p.TrebleAdjustmentDB,
		Confidence:         p.Confidence,
	}
}

// Pipeline runs the fixed-order DSP stage sequence: input gain, EQ,
// dynamics (compression or expansion, never both), stereo width, LUFS
// normalization, peak normalization, safety limiter.
type Pipeline struct {
	InputGainDB float64
}

// NewPipeline builds a Pipeline with zero input trim.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Process applies params and guidance to buf, returning a new buffer of
// the same sample and channel count. The exit invariants from §4.5.8
// (peak <= 0.99, sample/channel counts preserved, no NaN/Inf) are enforced
// by construction: every per-channel stage preserves length, and peak
// normalization sets the peak to params.PeakTargetDB (at most -0.2 dB,
// about 0.977); the safety limiter (ceiling 0.95) engages only when the
// peak still exceeds limiterSafetyThresholdDB.
func (pl *Pipeline) Process(buf pcm.Buffer, params space.ProcessingParameters, guidance AdaptiveGuidance) pcm.Buffer {
	start := time.Now()

	channels := make([][]float64, buf.Channels)
	for c, ch := range buf.Samples {
		channels[c] = pl.processChannel(ch, buf.SampleRate, params, guidance)
	}

	working := pcm.Buffer{SampleRate: buf.SampleRate, Channels: buf.Channels, Samples: channels}

	timed("stereo_width", func() {
		if working.Channels == 2 {
			working = ApplyStereoWidth(working, params.StereoWidthTarget)
		}
	})

	dynamicsBlend := params.DynamicsBlend
	dynamicRangeDB := dsp.CrestDB(working.Mono())

	timed("lufs_normalize", func() {
		delta := ComputeLUFSDelta(working.Mono(), working.SampleRate, params.TargetLUFS, dynamicRangeDB, dynamicsBlend)
		if delta != 0 {
			for c := range working.Samples {
				working.Samples[c] = dsp.Amplify(working.Samples[c], delta)
			}
		}
	})

	timed("peak_normalize", func() {
		peak := dsp.Peak(working.Interleaved())
		if peak > 1e-10 {
			gain := dsp.ToLinear(params.PeakTargetDB) / peak
			for c := range working.Samples {
				for i, s := range working.Samples[c] {
					working.Samples[c][i] = s * gain
				}
			}
		}
	})

	timed("safety_limiter", func() {
		if dsp.ToDB(dsp.Peak(working.Interleaved())) > limiterSafetyThresholdDB {
			for c := range working.Samples {
				working.Samples[c] = dsp.SoftClip(working.Samples[c], limiterSoftClipThreshold, limiterCeiling)
			}
		}
	})

	logger.DebugWithFields("pipeline run complete",
		logger.WithDuration(time.Since(start)),
		zap.Float64("peak_out", dsp.Peak(working.Interleaved())))
	metrics.Get().PipelineRunsTotal.WithLabelValues("ok").Inc()

	return working
}

func (pl *Pipeline) processChannel(ch []float64, sampleRate int, params space.ProcessingParameters, guidance AdaptiveGuidance) []float64 {
	out := ch
	timed("input_gain", func() { out = dsp.Amplify(out, pl.InputGainDB) })

	timed("eq", func() {
		out = ApplyEQ(out, sampleRate, params.EQ, params.EQBlend,
			guidance.BassAdjustmentDB, guidance.MidAdjustmentDB, guidance.TrebleAdjustmentDB, guidance.Confidence)
	})

	timed("dynamics", func() {
		if params.Compression.Amount > 0 {
			out = ApplyCompression(out, params.Compression)
		} else if params.Expansion.Amount > 0 {
			out = ApplyExpansion(out, params.Expansion)
		}
	})

	return out
}

func timed(stage string, fn func()) {
	start := time.Now()
	fn()
	metrics.Get().PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}
