package stream

import (
	"context"

	"go.uber.org/zap"

	"auralis.core/internal/cache"
	"auralis.core/internal/content"
	"auralis.core/internal/fingerprint"
	"auralis.core/internal/logger"
	"auralis.core/internal/metrics"
	"auralis.core/internal/pcm"
	"auralis.core/internal/pipeline"
	"auralis.core/internal/recording"
	"auralis.core/internal/space"
)

// Processor runs the chunked streaming protocol (§4.6) over a full track
// buffer: one track-level analysis, then per-chunk pipeline passes joined
// back together with equal-power crossfades and a level watchdog.
type Processor struct {
	analyzer *fingerprint.Analyzer
	cache    *cache.Cache
	pipeline *pipeline.Pipeline
	pref     space.Preference
}

// NewProcessor builds a Processor sharing the given analyzer, cache, and
// pipeline (normally the process-wide singletons — see SPEC_FULL.md §9).
func NewProcessor(analyzer *fingerprint.Analyzer, c *cache.Cache, pl *pipeline.Pipeline, pref space.Preference) *Processor {
	return &Processor{analyzer: analyzer, cache: c, pipeline: pl, pref: pref}
}

// trackFingerprint computes (or reuses, via the shared cache) the
// whole-track fingerprint that every chunk's C5 pass is parameterized by,
// satisfying §4.6's "per-track analysis runs exactly once" invariant.
func (p *Processor) trackFingerprint(buf pcm.Buffer) (fingerprint.Fingerprint, error) {
	raw := buf.Bytes()
	if fp, ok := p.cache.Get(raw); ok {
		return fp, nil
	}
	fp, err := p.analyzer.Analyze(buf)
	if err != nil {
		return fingerprint.Fingerprint{}, err
	}
	_ = p.cache.Set(raw, fp, int64(len(raw)))
	return fp, nil
}

// Process runs the full chunked protocol over buf and returns a buffer of
// the same sample and channel count (§4.6's exact-total-samples invariant).
func (p *Processor) Process(buf pcm.Buffer) (pcm.Buffer, error) {
	totalFrames := buf.Frames()
	if totalFrames == 0 {
		return buf.Clone(), nil
	}

	fp, err := p.trackFingerprint(buf)
	if err != nil {
		return pcm.Buffer{}, err
	}

	recType, adaptive := recording.Detect(fp)
	metrics.Get().RecordingTypeClassifications.WithLabelValues(string(recType)).Inc()

	profile := content.AnalyzeQuick(buf)
	genre, confidence := content.ClassifyWithFallback(context.Background(), profile, nil)
	metrics.Get().GenreClassifications.WithLabelValues(string(genre), "rule_based").Inc()
	logger.DebugWithFields("track classified",
		logger.WithRecordingType(string(recType)),
		zap.String("genre", string(genre)),
		zap.Float64("genre_confidence", confidence),
	)

	params := space.Generate(fp, p.pref)
	guidance := pipeline.GuidanceFrom(adaptive)

	strideFrames := int((ChunkDuration - OverlapDuration) * float64(buf.SampleRate))
	overlapFrames := int(OverlapDuration * float64(buf.SampleRate))
	contextFrames := int(ContextDuration * float64(buf.SampleRate))

	spans := planChunks(totalFrames, strideFrames, overlapFrames, contextFrames)

	out := make([][]float64, buf.Channels)
	for c := range out {
		out[c] = make([]float64, 0, totalFrames)
	}

	// priorTail holds each channel's already-emitted version of the
	// current overlap region, to crossfade against the next chunk's
	// re-processed version of that same track-time span.
	var priorTail [][]float64

	for i, span := range spans {
		chunk := sliceBuffer(buf, span.readStart, span.readEnd)
		processed := p.pipeline.Process(chunk, params, guidance)

		localEmitStart := span.emitStart - span.readStart
		localEmitEnd := span.emitEnd - span.readStart

		segment := make([][]float64, buf.Channels)
		for c := range segment {
			seg := make([]float64, localEmitEnd-localEmitStart)
			copy(seg, processed.Samples[c][localEmitStart:localEmitEnd])
			segment[c] = seg
		}

		overlapLen := overlapFrames
		if i > 0 && overlapLen > len(priorTail[0]) {
			overlapLen = len(priorTail[0])
		}

		if i > 0 && overlapLen > 0 {
			head := make([][]float64, buf.Channels)
			for c := range head {
				head[c] = processed.Samples[c][localEmitStart-overlapLen : localEmitStart]
			}

			gain := levelWatchdogGainStereo(priorTail, head)
			segment = applyGain(segment, gain)
			head = applyGain(head, gain)

			blended := crossfadeBuffers(priorTail, head)
			for c := range out {
				copy(out[c][len(out[c])-overlapLen:], blended[c])
			}
		}

		for c := range out {
			out[c] = append(out[c], segment[c]...)
		}

		tailLen := overlapFrames
		if tailLen > len(segment[0]) {
			tailLen = len(segment[0])
		}
		priorTail = make([][]float64, buf.Channels)
		for c := range priorTail {
			start := len(segment[c]) - tailLen
			tail := make([]float64, tailLen)
			copy(tail, segment[c][start:])
			priorTail[c] = tail
		}
	}

	for c := range out {
		if len(out[c]) > totalFrames {
			out[c] = out[c][:totalFrames]
		}
		if len(out[c]) < totalFrames {
			pad := make([]float64, totalFrames-len(out[c]))
			out[c] = append(out[c], pad...)
		}
	}

	return pcm.Buffer{SampleRate: buf.SampleRate, Channels: buf.Channels, Samples: out}, nil
}

// levelWatchdogGainStereo reduces the per-channel watchdog check to a
// single gain by measuring RMS across every channel's concatenated
// samples, so the stereo image is not skewed by independent per-channel
// corrections.
func levelWatchdogGainStereo(priorTail, newHead [][]float64) float64 {
	var prior, next []float64
	for c := range priorTail {
		prior = append(prior, priorTail[c]...)
		next = append(next, newHead[c]...)
	}
	return levelWatchdogGain(prior, next)
}
