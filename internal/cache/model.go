package cache

import "time"

// fingerprintRow is the gorm model for the `fingerprints` table, matching
// the schema in the external-interfaces section exactly.
type fingerprintRow struct {
	CacheKey        string `gorm:"column:cache_key;primaryKey"`
	FingerprintJSON string `gorm:"column:fingerprint_json;not null"`
	FingerprintSize int    `gorm:"column:fingerprint_size"`
	AudioLength     int64  `gorm:"column:audio_length"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	AccessedAt      time.Time `gorm:"column:accessed_at"`
	AccessCount     int       `gorm:"column:access_count;default:1"`
}

func (fingerprintRow) TableName() string { return "fingerprints" }
