// Package metrics exposes the Prometheus instrumentation surface for the
// fingerprinting pipeline, cache, and worker pool. Structure and naming
// conventions (CounterVec/HistogramVec/GaugeVec fields grouped by
// subsystem, a promauto.NewXVec per field, a sync.Once-guarded global
// singleton) are carried over from the teacher's HTTP/cache/database
// metrics registry; the fields themselves are re-scoped to Auralis's own
// subsystems (fingerprint extraction, the two-level cache, the DSP
// pipeline, the extraction worker pool).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Fingerprint extraction (C1/C2).
	FingerprintExtractionDuration prometheus.HistogramVec
	FingerprintExtractionFailures prometheus.CounterVec

	// Two-level fingerprint cache (C2).
	CacheHitsTotal      prometheus.CounterVec
	CacheMissesTotal    prometheus.CounterVec
	CacheEvictionsTotal prometheus.CounterVec
	CacheSizeBytes      prometheus.GaugeVec

	// Recording-type detection & content analysis (C3).
	RecordingTypeClassifications prometheus.CounterVec
	GenreClassifications         prometheus.CounterVec

	// DSP pipeline (C5/C6).
	PipelineStageDuration prometheus.HistogramVec
	PipelineRunsTotal     prometheus.CounterVec
	ChunkLevelCorrections prometheus.CounterVec

	// Extraction worker pool (C7).
	QueueDepth           prometheus.GaugeVec
	QueueWorkersBusy     prometheus.GaugeVec
	QueueJobsCompleted   prometheus.CounterVec
	QueueJobsFailed      prometheus.CounterVec
	QueueJobRetriesTotal prometheus.CounterVec

	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics. Safe to call
// from multiple goroutines; registration happens exactly once.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			FingerprintExtractionDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "fingerprint_extraction_duration_seconds",
					Help:    "Time to extract a 25-dimensional fingerprint from a track",
					Buckets: []float64{.05, .1, .25, .5, .75, 1, 1.5, 2, 3, 5},
				},
				[]string{"mode"},
			),
			FingerprintExtractionFailures: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fingerprint_extraction_failures_total",
					Help: "Total fingerprint extractions that fell back to neutral values",
				},
				[]string{"reason"},
			),

			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fingerprint_cache_hits_total",
					Help: "Total fingerprint cache hits",
				},
				[]string{"tier"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fingerprint_cache_misses_total",
					Help: "Total fingerprint cache misses",
				},
				[]string{"tier"},
			),
			CacheEvictionsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "fingerprint_cache_evictions_total",
					Help: "Total fingerprint cache evictions",
				},
				[]string{"tier"},
			),
			CacheSizeBytes: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "fingerprint_cache_size_bytes",
					Help: "Current on-disk size of the persistent fingerprint cache",
				},
				[]string{"tier"},
			),

			RecordingTypeClassifications: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "recording_type_classifications_total",
					Help: "Total recording-type detections by resulting class",
				},
				[]string{"recording_type"},
			),
			GenreClassifications: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "genre_classifications_total",
					Help: "Total genre classifications by resulting genre and source",
				},
				[]string{"genre", "source"},
			),

			PipelineStageDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "pipeline_stage_duration_seconds",
					Help:    "Per-stage latency within the DSP mastering pipeline",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
				},
				[]string{"stage"},
			),
			PipelineRunsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "pipeline_runs_total",
					Help: "Total mastering pipeline runs by outcome",
				},
				[]string{"outcome"},
			),
			ChunkLevelCorrections: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "stream_chunk_level_corrections_total",
					Help: "Total chunks whose gain was constrained by the level watchdog",
				},
				[]string{},
			),

			QueueDepth: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "extraction_queue_depth",
					Help: "Current number of pending extraction jobs",
				},
				[]string{},
			),
			QueueWorkersBusy: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "extraction_queue_workers_busy",
					Help: "Current number of workers holding the extraction semaphore",
				},
				[]string{},
			),
			QueueJobsCompleted: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "extraction_jobs_completed_total",
					Help: "Total extraction jobs completed successfully",
				},
				[]string{},
			),
			QueueJobsFailed: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "extraction_jobs_failed_total",
					Help: "Total extraction jobs that failed after exhausting retries",
				},
				[]string{},
			),
			QueueJobRetriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "extraction_job_retries_total",
					Help: "Total extraction job retry attempts",
				},
				[]string{},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total errors by code",
				},
				[]string{"code"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance, initializing it on first use.
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
