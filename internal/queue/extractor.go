package queue

import (
	"context"
	"fmt"

	"auralis.core/internal/cache"
	"auralis.core/internal/fingerprint"
	"auralis.core/internal/pcm"
)

// Extractor computes and persists the fingerprint for one track. It is the
// unit of work a pool worker performs per claimed job.
type Extractor interface {
	ExtractAndStore(ctx context.Context, job *ExtractionJob) error
}

// LoadPCM decodes a track at filePath into a PCM buffer. Decoding is an
// external collaborator per the module's audio-ingress boundary; callers
// supply their own implementation (e.g. backed by an ffmpeg/libsndfile
// shim) when constructing a CacheBackedExtractor.
type LoadPCM func(ctx context.Context, filePath string) (pcm.Buffer, error)

// CacheBackedExtractor extracts a fingerprint through the two-level cache:
// a cache hit skips analysis entirely; a miss runs the analyzer and
// populates the cache before storing the result in the repository.
type CacheBackedExtractor struct {
	analyzer *fingerprint.Analyzer
	cache    *cache.Cache
	repo     Repository
	load     LoadPCM
}

// NewCacheBackedExtractor builds an extractor wired to the given analyzer,
// cache, repository and PCM loader.
func NewCacheBackedExtractor(analyzer *fingerprint.Analyzer, c *cache.Cache, repo Repository, load LoadPCM) *CacheBackedExtractor {
	return &CacheBackedExtractor{analyzer: analyzer, cache: c, repo: repo, load: load}
}

func (e *CacheBackedExtractor) ExtractAndStore(ctx context.Context, job *ExtractionJob) error {
	buf, err := e.load(ctx, job.FilePath)
	if err != nil {
		return fmt.Errorf("load pcm for track %s: %w", job.TrackID, err)
	}
	raw := buf.Bytes()

	if e.cache != nil {
		if fp, ok := e.cache.Get(raw); ok {
			return e.repo.StoreFingerprint(ctx, job.TrackID, fp)
		}
	}

	fp, err := e.analyzer.Analyze(buf)
	if err != nil {
		return fmt.Errorf("analyze track %s: %w", job.TrackID, err)
	}

	if e.cache != nil {
		_ = e.cache.Set(raw, fp, int64(len(raw)))
	}

	return e.repo.StoreFingerprint(ctx, job.TrackID, fp)
}
