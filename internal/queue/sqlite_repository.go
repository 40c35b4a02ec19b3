package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"auralis.core/internal/fingerprint"
)

// trackRow is the gorm model for the `tracks` table: the durable queue of
// tracks awaiting fingerprint extraction, plus their stored result once
// extraction succeeds.
type trackRow struct {
	TrackID         string `gorm:"column:track_id;primaryKey"`
	FilePath        string `gorm:"column:filepath;not null"`
	Priority        int    `gorm:"column:priority;default:0"`
	RetryCount      int    `gorm:"column:retry_count;default:0"`
	MaxRetries      int    `gorm:"column:max_retries;default:3"`
	ClaimedAt       *time.Time `gorm:"column:claimed_at"`
	FingerprintJSON string     `gorm:"column:fingerprint_json"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (trackRow) TableName() string { return "tracks" }

// SQLiteRepository is the Repository backing the extraction worker pool in
// a standalone deployment: a single SQLite table holding every track that
// still needs fingerprinting, claimed atomically per §4.7's "atomic DB
// claim" requirement via an UPDATE ... RETURNING-shaped claim (SQLite lacks
// RETURNING in the driver used here, so the claim is a transaction: select
// the highest-priority, oldest unclaimed row, then update it guarded by
// claimed_at IS NULL, retrying with a fresh select on a conflicting update).
type SQLiteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository opens (creating if needed) the SQLite-backed queue
// table rooted at dbPath.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create queue directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite queue: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := db.AutoMigrate(&trackRow{}); err != nil {
		return nil, fmt.Errorf("migrate tracks table: %w", err)
	}
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tracks_unclaimed ON tracks(claimed_at, priority DESC, created_at ASC)")

	return &SQLiteRepository{db: db}, nil
}

// Enqueue inserts a new track awaiting extraction. trackID must be unique;
// re-enqueuing an existing ID is a no-op.
func (r *SQLiteRepository) Enqueue(trackID, filePath string, priority int) error {
	row := trackRow{TrackID: trackID, FilePath: filePath, Priority: priority, MaxRetries: defaultMaxRetries}
	return r.db.Where("track_id = ?", trackID).
		FirstOrCreate(&row, trackRow{TrackID: trackID}).Error
}

const defaultMaxRetries = 3

// ClaimNextUnfingerprintedTrack atomically claims the highest-priority,
// oldest unclaimed, un-fingerprinted track, or returns (nil, nil) when the
// queue is empty — the worker pool's signal to exit its loop.
func (r *SQLiteRepository) ClaimNextUnfingerprintedTrack(ctx context.Context) (*ExtractionJob, error) {
	var job *ExtractionJob
	lost := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row trackRow
		err := tx.Where("claimed_at IS NULL AND fingerprint_json = ''").
			Order("priority DESC, created_at ASC").
			First(&row).Error
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&trackRow{}).
			Where("track_id = ? AND claimed_at IS NULL", row.TrackID).
			Update("claimed_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to another claimant; retried below.
			lost = true
			return nil
		}

		job = &ExtractionJob{
			TrackID:    row.TrackID,
			FilePath:   row.FilePath,
			Priority:   row.Priority,
			RetryCount: row.RetryCount,
			MaxRetries: row.MaxRetries,
			EnqueuedAt: row.CreatedAt,
		}
		return nil
	})
	if err == nil && lost {
		return r.ClaimNextUnfingerprintedTrack(ctx)
	}
	return job, err
}

// StoreFingerprint persists the extracted fingerprint and clears the claim,
// marking the track done.
func (r *SQLiteRepository) StoreFingerprint(ctx context.Context, trackID string, fp fingerprint.Fingerprint) error {
	payload, err := json.Marshal(fp)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&trackRow{}).
		Where("track_id = ?", trackID).
		Updates(map[string]any{"fingerprint_json": string(payload), "claimed_at": nil}).Error
}

// ReleaseClaim clears a track's claim and bumps its retry count, making it
// eligible for another worker to claim.
func (r *SQLiteRepository) ReleaseClaim(ctx context.Context, trackID string) error {
	return r.db.WithContext(ctx).Model(&trackRow{}).
		Where("track_id = ?", trackID).
		Updates(map[string]any{"claimed_at": nil, "retry_count": gorm.Expr("retry_count + 1")}).Error
}
