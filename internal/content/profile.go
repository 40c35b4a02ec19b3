// Package content implements the content analyzer and genre classifier
// (C3's non-recording-type half): a fast, mostly time-domain pass over
// the audio buffer producing a ContentProfile, plus a rule-based genre
// tagger with an optional pluggable ML classifier.
package content

// EnergyLevel is a coarse RMS-based energy category.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Profile is the output of analyze_content: a handful of cheap-to-compute
// descriptive statistics, distinct from (and cheaper than) the full
// 25-dimensional fingerprint.
type Profile struct {
	RMS              float64
	Peak             float64
	CrestDB          float64
	LUFS             float64
	SpectralCentroid float64
	SpectralRolloff  float64
	ZeroCrossingRate float64
	TempoBPM         float64 // 0 in the Quick variant
	StereoWidthFlag  bool    // true when stereo and audibly decorrelated
	Energy           EnergyLevel
	DynamicRangeDB   float64
}
