package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDelta_ReportsPerFeatureDifference(t *testing.T) {
	a := Fingerprint{Bass: 30, LUFS: -14, SpectralCentroid: 2000}
	b := Fingerprint{Bass: 22, LUFS: -18, SpectralCentroid: 2000}

	d := Delta(a, b)

	require.InDelta(t, 8, d["bass"], 1e-9)
	require.InDelta(t, 4, d["lufs"], 1e-9)
	require.InDelta(t, 0, d["spectral_centroid"], 1e-9)
}

func TestDelta_ZeroForIdenticalFingerprints(t *testing.T) {
	fp := Fingerprint{Bass: 10, Mid: 20, Air: 5}
	d := Delta(fp, fp)
	for k, v := range d {
		require.InDelta(t, 0, v, 1e-9, "field %s", k)
	}
}
