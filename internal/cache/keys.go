// Package cache implements the two-level fingerprint cache (C2): an
// in-memory LRU backed by a persistent SQLite table, keyed by a content
// hash of the source audio bytes. Locking and instrumentation follow the
// same shape as the teacher's Redis client wrapper — a guarded struct with
// counters — adapted here to an in-process + file-backed pair instead of a
// network cache tier.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

const prefixBytes = 10240

// Key derives the 16-hex-character cache key for a raw audio byte slice:
// SHA-256 of the first min(10240, len) bytes concatenated with the
// little-endian uint64 total length, truncated to 16 hex characters. Two
// files with identical short prefixes but different lengths always
// produce different keys because the length is hashed in.
func Key(audioBytes []byte) string {
	n := len(audioBytes)
	prefixLen := n
	if prefixLen > prefixBytes {
		prefixLen = prefixBytes
	}

	h := sha256.New()
	h.Write(audioBytes[:prefixLen])

	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(n))
	h.Write(lenBuf[:])

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:16]
}
