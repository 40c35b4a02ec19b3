package queue

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/fingerprint"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	return repo
}

func TestSQLiteRepository_ClaimReturnsNilWhenEmpty(t *testing.T) {
	repo := newTestRepo(t)
	job, err := repo.ClaimNextUnfingerprintedTrack(context.Background())
	require.NoError(t, err)
	require.Nil(t, job)
}

func TestSQLiteRepository_ClaimHonorsPriorityOrder(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Enqueue("low", "/tmp/low.wav", 1))
	require.NoError(t, repo.Enqueue("high", "/tmp/high.wav", 9))

	job, err := repo.ClaimNextUnfingerprintedTrack(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, "high", job.TrackID)
}

func TestSQLiteRepository_ClaimedTrackIsNotReclaimed(t *testing.T) {
	repo := newTestRepo(t)
	require.NoError(t, repo.Enqueue("track-1", "/tmp/a.wav", 0))

	ctx := context.Background()
	first, err := repo.ClaimNextUnfingerprintedTrack(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := repo.ClaimNextUnfingerprintedTrack(ctx)
	require.NoError(t, err)
	require.Nil(t, second)
}

func TestSQLiteRepository_StoreFingerprintThenReleaseClaim(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Enqueue("track-1", "/tmp/a.wav", 0))

	job, err := repo.ClaimNextUnfingerprintedTrack(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)

	require.NoError(t, repo.StoreFingerprint(ctx, job.TrackID, fingerprint.Fingerprint{Bass: 20}))

	var row trackRow
	require.NoError(t, repo.db.Where("track_id = ?", job.TrackID).First(&row).Error)
	require.NotEmpty(t, row.FingerprintJSON)
	require.Nil(t, row.ClaimedAt)
}

func TestSQLiteRepository_ReleaseClaimAllowsReclaim(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Enqueue("track-1", "/tmp/a.wav", 0))

	job, err := repo.ClaimNextUnfingerprintedTrack(ctx)
	require.NoError(t, err)
	require.NotNil(t, job)

	require.NoError(t, repo.ReleaseClaim(ctx, job.TrackID))

	reclaimed, err := repo.ClaimNextUnfingerprintedTrack(ctx)
	require.NoError(t, err)
	require.NotNil(t, reclaimed)
	require.Equal(t, 1, reclaimed.RetryCount)
}
