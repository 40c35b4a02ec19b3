package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/fingerprint"
)

func fakeFingerprint(lufs float64) fingerprint.Fingerprint {
	fp := fingerprint.Fingerprint{}
	fp.LUFS = lufs
	fp.CrestDB = 12
	fp.PhaseCorrelation = 1
	fp.PeakConsistency = 1
	return fp
}

func TestCache_SetThenGet(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	audio := []byte("hello world audio bytes")
	fp := fakeFingerprint(-14)

	require.NoError(t, c.Set(audio, fp, 1000))

	got, ok := c.Get(audio)
	require.True(t, ok)
	require.Equal(t, fp, got)
}

func TestCache_KeyDistinguishesLength(t *testing.T) {
	short := make([]byte, 100)
	long := make([]byte, 20000)
	copy(long, short)

	require.NotEqual(t, Key(short), Key(long))
}

func TestCache_MissReturnsFalse(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	_, ok := c.Get([]byte("never set"))
	require.False(t, ok)
}

func TestCache_MemoryTierBounded(t *testing.T) {
	c, err := New(t.TempDir(), WithMaxMemory(2), WithPreloadCount(0))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		audio := []byte{byte(i), byte(i), byte(i)}
		require.NoError(t, c.Set(audio, fakeFingerprint(-14), 10))
	}

	require.LessOrEqual(t, c.Stats().MemoryEntries, 2)
}

func TestCache_StatsTracksHitsAndMisses(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	audio := []byte("track-a")
	require.NoError(t, c.Set(audio, fakeFingerprint(-10), 10))

	c.Get(audio)
	c.Get([]byte("not-cached"))

	stats := c.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
}

func TestCache_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	audio := []byte("persisted-track")
	fp := fakeFingerprint(-16)

	c1, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, c1.Set(audio, fp, 42))

	c2, err := New(dir, WithPreloadCount(0))
	require.NoError(t, err)
	got, ok := c2.Get(audio)
	require.True(t, ok)
	require.Equal(t, fp, got)
}

func TestCache_Clear(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	audio := []byte("to-be-cleared")
	require.NoError(t, c.Set(audio, fakeFingerprint(-10), 10))
	require.NoError(t, c.Clear())

	_, ok := c.Get(audio)
	require.False(t, ok)
}
