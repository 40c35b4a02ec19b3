package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"auralis.core/internal/fingerprint"
	"auralis.core/internal/logger"
)

const (
	defaultMaxSizeGB  = 2.0
	evictionBatchSize = 1000
	evictionTargetPct = 0.8
)

// persistentStore is the L2 tier: a single SQLite connection with WAL
// journaling, shared across all callers and protected by a mutex around
// writes (gorm's own connection pool handles reader concurrency under
// WAL, per the shared-resource policy in §5).
type persistentStore struct {
	mu     sync.Mutex
	db     *gorm.DB
	dbPath string
	maxGB  float64
}

func openPersistentStore(dbPath string, maxGB float64) (*persistentStore, error) {
	if maxGB <= 0 {
		maxGB = defaultMaxSizeGB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		return nil, fmt.Errorf("set synchronous mode: %w", err)
	}
	if err := db.Exec("PRAGMA cache_size=10000").Error; err != nil {
		return nil, fmt.Errorf("set cache_size: %w", err)
	}

	if err := db.AutoMigrate(&fingerprintRow{}); err != nil {
		return nil, fmt.Errorf("migrate fingerprints table: %w", err)
	}
	db.Exec("CREATE INDEX IF NOT EXISTS idx_accessed_at ON fingerprints(accessed_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_access_count ON fingerprints(access_count DESC)")

	return &persistentStore{db: db, dbPath: dbPath, maxGB: maxGB}, nil
}

func (p *persistentStore) get(key string) (fingerprint.Fingerprint, int64, bool, error) {
	var row fingerprintRow
	err := p.db.Where("cache_key = ?", key).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return fingerprint.Fingerprint{}, 0, false, nil
	}
	if err != nil {
		return fingerprint.Fingerprint{}, 0, false, err
	}

	var fp fingerprint.Fingerprint
	if err := json.Unmarshal([]byte(row.FingerprintJSON), &fp); err != nil {
		return fingerprint.Fingerprint{}, 0, false, err
	}

	p.mu.Lock()
	p.db.Model(&fingerprintRow{}).Where("cache_key = ?", key).
		Updates(map[string]any{"accessed_at": time.Now(), "access_count": gorm.Expr("access_count + 1")})
	p.mu.Unlock()

	return fp, row.AudioLength, true, nil
}

func (p *persistentStore) set(key string, fp fingerprint.Fingerprint, audioLength int64) error {
	payload, err := json.Marshal(fp)
	if err != nil {
		return err
	}

	row := fingerprintRow{
		CacheKey:        key,
		FingerprintJSON: string(payload),
		FingerprintSize: len(payload),
		AudioLength:     audioLength,
		AccessedAt:      time.Now(),
		AccessCount:     1,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.db.Save(&row).Error
	if err != nil {
		return err
	}

	p.evictIfNeeded()
	return nil
}

// evictIfNeeded deletes the oldest-by-accessed_at rows in batches until the
// database file is at or below evictionTargetPct of maxGB, mirroring
// persistent_cache.py's _evict_if_needed.
func (p *persistentStore) evictIfNeeded() {
	size, err := p.fileSizeBytes()
	if err != nil {
		logger.WarnWithFields("cache size check failed", zap.Error(err))
		return
	}
	maxBytes := int64(p.maxGB * 1e9)
	if size <= maxBytes {
		return
	}
	target := int64(float64(maxBytes) * evictionTargetPct)

	for {
		size, err = p.fileSizeBytes()
		if err != nil || size <= target {
			return
		}
		res := p.db.Exec(`DELETE FROM fingerprints WHERE cache_key IN (
			SELECT cache_key FROM fingerprints ORDER BY accessed_at ASC LIMIT ?)`, evictionBatchSize)
		if res.Error != nil || res.RowsAffected == 0 {
			return
		}
	}
}

func (p *persistentStore) fileSizeBytes() (int64, error) {
	info, err := os.Stat(p.dbPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (p *persistentStore) count() int64 {
	var n int64
	p.db.Model(&fingerprintRow{}).Count(&n)
	return n
}

func (p *persistentStore) clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db.Exec("DELETE FROM fingerprints").Error
}

// cleanupOlderThan deletes rows not accessed within the given duration,
// returning the number of rows removed.
func (p *persistentStore) cleanupOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	p.mu.Lock()
	defer p.mu.Unlock()
	res := p.db.Where("accessed_at < ?", cutoff).Delete(&fingerprintRow{})
	return res.RowsAffected, res.Error
}

// mostRecentlyAccessed returns up to n of the most recently accessed rows,
// used to preload the memory tier at startup.
func (p *persistentStore) mostRecentlyAccessed(n int) ([]fingerprintRow, error) {
	var rows []fingerprintRow
	err := p.db.Order("accessed_at DESC").Limit(n).Find(&rows).Error
	return rows, err
}
