package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/fingerprint"
)

type fakeRepo struct {
	mu      sync.Mutex
	pending []*ExtractionJob
	stored  map[string]fingerprint.Fingerprint
	order   []string
	released map[string]bool
}

func newFakeRepo(jobs ...*ExtractionJob) *fakeRepo {
	return &fakeRepo{pending: jobs, stored: map[string]fingerprint.Fingerprint{}, released: map[string]bool{}}
}

func (f *fakeRepo) ClaimNextUnfingerprintedTrack(ctx context.Context) (*ExtractionJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return nil, nil
	}
	job := f.pending[0]
	f.pending = f.pending[1:]
	return job, nil
}

func (f *fakeRepo) StoreFingerprint(ctx context.Context, trackID string, fp fingerprint.Fingerprint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[trackID] = fp
	f.order = append(f.order, trackID)
	return nil
}

func (f *fakeRepo) ReleaseClaim(ctx context.Context, trackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released[trackID] = true
	return nil
}

type fakeExtractor struct {
	failTracks map[string]int // how many times to fail before succeeding
	mu         sync.Mutex
	attempts   map[string]int
	repo       *fakeRepo // where a successful extraction is stored
}

func (f *fakeExtractor) ExtractAndStore(ctx context.Context, job *ExtractionJob) error {
	f.mu.Lock()
	f.attempts[job.TrackID]++
	attempt := f.attempts[job.TrackID]
	f.mu.Unlock()

	if fails, ok := f.failTracks[job.TrackID]; ok && attempt <= fails {
		return errors.New("simulated extraction failure")
	}
	if f.repo != nil {
		return f.repo.StoreFingerprint(ctx, job.TrackID, fingerprint.Fingerprint{})
	}
	return nil
}

func TestPool_DrainsRepositoryClaims(t *testing.T) {
	repo := newFakeRepo(
		&ExtractionJob{TrackID: "a", FilePath: "a.wav", MaxRetries: 1},
		&ExtractionJob{TrackID: "b", FilePath: "b.wav", MaxRetries: 1},
	)
	ext := &fakeExtractor{failTracks: map[string]int{}, attempts: map[string]int{}, repo: repo}
	pool := New(repo, ext, WithWorkers(2))

	ctx := context.Background()
	pool.Start(ctx)
	require.Eventually(t, func() bool {
		return pool.Stats().Completed == 2
	}, time.Second, 5*time.Millisecond)
	pool.Stop(time.Second)

	require.Len(t, repo.stored, 2)
}

func TestPool_RetriesThenSucceeds(t *testing.T) {
	repo := newFakeRepo(&ExtractionJob{TrackID: "flaky", FilePath: "f.wav", MaxRetries: 3})
	ext := &fakeExtractor{failTracks: map[string]int{"flaky": 2}, attempts: map[string]int{}, repo: repo}
	pool := New(repo, ext, WithWorkers(1))

	pool.Start(context.Background())
	require.Eventually(t, func() bool {
		return pool.Stats().Completed == 1
	}, time.Second, 5*time.Millisecond)
	pool.Stop(time.Second)

	require.GreaterOrEqual(t, pool.Stats().Retried, int64(2))
	require.Contains(t, repo.stored, "flaky")
}

func TestPool_FailsAfterExhaustingRetries(t *testing.T) {
	repo := newFakeRepo(&ExtractionJob{TrackID: "broken", FilePath: "b.wav", MaxRetries: 1})
	ext := &fakeExtractor{failTracks: map[string]int{"broken": 99}, attempts: map[string]int{}, repo: repo}
	pool := New(repo, ext, WithWorkers(1))

	pool.Start(context.Background())
	require.Eventually(t, func() bool {
		return pool.Stats().Failed == 1
	}, time.Second, 5*time.Millisecond)
	pool.Stop(time.Second)

	require.True(t, repo.released["broken"])
	require.NotContains(t, repo.stored, "broken")
}

func TestPool_EnqueuedJobTakesPriorityOverClaim(t *testing.T) {
	repo := newFakeRepo(&ExtractionJob{TrackID: "claimed", FilePath: "c.wav", MaxRetries: 0})
	ext := &fakeExtractor{failTracks: map[string]int{}, attempts: map[string]int{}, repo: repo}
	pool := New(repo, ext, WithWorkers(1))
	pool.Enqueue(&ExtractionJob{TrackID: "priority", FilePath: "p.wav", Priority: 10, MaxRetries: 0})

	pool.Start(context.Background())
	require.Eventually(t, func() bool {
		return pool.Stats().Completed == 2
	}, time.Second, 5*time.Millisecond)
	pool.Stop(time.Second)

	require.Contains(t, repo.stored, "priority")
	require.Contains(t, repo.stored, "claimed")
	require.Equal(t, []string{"priority", "claimed"}, repo.order)
}

func TestPool_StopJoinsWithinTimeout(t *testing.T) {
	repo := newFakeRepo()
	ext := &fakeExtractor{failTracks: map[string]int{}, attempts: map[string]int{}}
	pool := New(repo, ext, WithWorkers(2))
	pool.Start(context.Background())
	require.True(t, pool.Stop(time.Second))
}
