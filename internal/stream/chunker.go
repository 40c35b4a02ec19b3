// Package stream implements the chunked streaming processor (§4.6):
// near-real-time mastering by running overlapping windows of a track
// through the DSP pipeline with track-level (not per-chunk) parameters,
// crossfading the overlaps back together with an equal-power curve.
package stream

import "auralis.core/internal/pcm"

const (
	// ChunkDuration is the nominal length of a processed window.
	ChunkDuration = 15.0
	// OverlapDuration is the trailing/leading overlap crossfaded between
	// consecutive chunks.
	OverlapDuration = 5.0
	// ContextDuration is extra trailing read-ahead used to stabilize
	// per-chunk analysis; it is never itself emitted.
	ContextDuration = 3.0
	// MaxLevelChangeDB bounds the gain the watchdog allows between a new
	// chunk's head and the prior chunk's tail.
	MaxLevelChangeDB = 1.5
)

// chunkSpan describes one chunk's read window against the track's frame
// indices. [readStart, readEnd) is what gets processed through the
// pipeline (readStart reaches back overlapFrames for continuity,
// readEnd reaches forward contextFrames for filter stability).
// [emitStart, emitEnd) is the stride-only slice of that processed output
// that is new relative to the previous chunk — it excludes both the
// leading overlap (crossfaded separately against the prior chunk's held
// tail) and the trailing context (read for stability, never emitted).
type chunkSpan struct {
	readStart, readEnd int
	emitStart, emitEnd int
}

// planChunks divides totalFrames into overlapping chunks advancing by
// strideFrames, each reading overlapFrames of leading context (for
// crossfade continuity) and contextFrames of trailing context (for
// filter stability, discarded before emission). The final chunk's read
// and emit windows are truncated to the track length — never padded —
// so total emitted frames exactly equals totalFrames.
func planChunks(totalFrames, strideFrames, overlapFrames, contextFrames int) []chunkSpan {
	if totalFrames <= 0 {
		return nil
	}
	var spans []chunkSpan
	for strideStart := 0; strideStart < totalFrames; strideStart += strideFrames {
		readStart := strideStart - overlapFrames
		if readStart < 0 {
			readStart = 0
		}
		strideEnd := strideStart + strideFrames
		if strideEnd > totalFrames {
			strideEnd = totalFrames
		}
		readEnd := strideEnd + contextFrames
		if readEnd > totalFrames {
			readEnd = totalFrames
		}
		spans = append(spans, chunkSpan{readStart: readStart, readEnd: readEnd, emitStart: strideStart, emitEnd: strideEnd})
		if strideEnd >= totalFrames {
			break
		}
	}
	return spans
}

// sliceBuffer returns a new Buffer covering frames [start, end) of buf,
// sharing no backing array with it.
func sliceBuffer(buf pcm.Buffer, start, end int) pcm.Buffer {
	channels := make([][]float64, len(buf.Samples))
	for c, ch := range buf.Samples {
		seg := make([]float64, end-start)
		copy(seg, ch[start:end])
		channels[c] = seg
	}
	return pcm.Buffer{SampleRate: buf.SampleRate, Channels: buf.Channels, Samples: channels}
}
