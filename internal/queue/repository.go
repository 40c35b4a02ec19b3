package queue

import (
	"context"

	"auralis.core/internal/fingerprint"
)

// Repository is the external track store the worker pool claims work
// from. It is implemented by the caller's music-library database — out
// of scope for this module per the collaborator boundary in §6 — and
// passed in at Pool construction time.
type Repository interface {
	// ClaimNextUnfingerprintedTrack atomically marks one track as claimed
	// and returns it. Returns (nil, nil) when no work is available.
	ClaimNextUnfingerprintedTrack(ctx context.Context) (*ExtractionJob, error)

	// StoreFingerprint persists the extracted fingerprint against the
	// claimed track, releasing its claim.
	StoreFingerprint(ctx context.Context, trackID string, fp fingerprint.Fingerprint) error

	// ReleaseClaim releases a track's claim without storing a result,
	// called after extraction fails and retries are exhausted.
	ReleaseClaim(ctx context.Context, trackID string) error
}
