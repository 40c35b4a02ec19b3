package recording

import (
	"testing"

	"github.com/stretchr/testify/require"

	"auralis.core/internal/fingerprint"
)

func baseFingerprint() fingerprint.Fingerprint {
	fp := fingerprint.Fingerprint{}
	fp.StereoWidth = 0.4
	fp.CrestDB = 12
	fp.LUFS = -16
	return fp
}

func TestDetect_DarkNarrowBootleg(t *testing.T) {
	fp := baseFingerprint()
	fp.SpectralCentroid = 450
	fp.BassMidRatio = 14
	fp.StereoWidth = 0.20
	fp.CrestDB = 5

	typ, params := Detect(fp)
	require.Equal(t, Bootleg, typ)
	require.GreaterOrEqual(t, params.Confidence, confidenceThreshold)
	require.Equal(t, PhilosophyCorrect, params.Philosophy)
	require.LessOrEqual(t, params.BassAdjustmentDB, -3.0)
	require.GreaterOrEqual(t, params.TrebleAdjustmentDB, 3.0)
	require.Equal(t, StereoExpand, params.StereoStrategy)
}

func TestDetect_BrightCompressedMetal(t *testing.T) {
	fp := baseFingerprint()
	fp.SpectralCentroid = 1340
	fp.BassMidRatio = 9.6
	fp.StereoWidth = 0.42
	fp.CrestDB = 3.5

	typ, params := Detect(fp)
	require.Equal(t, Metal, typ)
	require.Equal(t, PhilosophyPunch, params.Philosophy)
	require.GreaterOrEqual(t, params.BassAdjustmentDB, 3.0)
	require.Less(t, params.TrebleAdjustmentDB, 0.0)
	require.Equal(t, StereoNarrow, params.StereoStrategy)
}

func TestDetect_TypicalStudioMaster(t *testing.T) {
	fp := baseFingerprint()
	fp.SpectralCentroid = 680
	fp.BassMidRatio = 2
	fp.StereoWidth = 0.4
	fp.CrestDB = 14

	typ, params := Detect(fp)
	require.Equal(t, Studio, typ)
	require.Equal(t, PhilosophyEnhance, params.Philosophy)
	require.Equal(t, StereoMaintain, params.StereoStrategy)
}

func TestDetect_AmbiguousFingerprintIsUnknown(t *testing.T) {
	fp := baseFingerprint()
	fp.SpectralCentroid = 2500
	fp.BassMidRatio = 0
	fp.StereoWidth = 0.55
	fp.CrestDB = 13

	typ, params := Detect(fp)
	require.Equal(t, Unknown, typ)
	require.Less(t, params.Confidence, confidenceThreshold)
	require.Equal(t, PhilosophyEnhance, params.Philosophy)
}

func TestDetect_ConfidenceNeverNegative(t *testing.T) {
	_, params := Detect(fingerprint.Fingerprint{})
	require.GreaterOrEqual(t, params.Confidence, 0.0)
}
