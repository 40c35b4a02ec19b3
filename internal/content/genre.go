package content

// Genre is one of the fixed rule-based genre tags.
type Genre string

const (
	GenreClassical Genre = "classical"
	GenreRock      Genre = "rock"
	GenreElectronic Genre = "electronic"
	GenreJazz      Genre = "jazz"
	GenrePop       Genre = "pop"
	GenreHipHop    Genre = "hip_hop"
	GenreAcoustic  Genre = "acoustic"
	GenreAmbient   Genre = "ambient"
)

const genreConfidenceThreshold = 0.6

// genreRule scores a Profile against one genre's characteristic ranges.
type genreRule struct {
	genre Genre
	score func(Profile) float64
}

var genreRules = []genreRule{
	{GenreClassical, func(p Profile) float64 {
		return band(p.TempoBPM, 50, 110, 30) * 0.3 +
			band(p.CrestDB, 14, 30, 6) * 0.5 +
			(1 - p.ZeroCrossingRate*10) * 0.2
	}},
	{GenreRock, func(p Profile) float64 {
		return band(p.TempoBPM, 100, 160, 20) * 0.4 +
			band(p.CrestDB, 6, 11, 3) * 0.3 +
			band(p.SpectralCentroid, 1500, 4000, 1500) * 0.3
	}},
	{GenreElectronic, func(p Profile) float64 {
		return band(p.TempoBPM, 110, 140, 15) * 0.4 +
			band(p.CrestDB, 4, 8, 3) * 0.3 +
			band(p.SpectralCentroid, 2500, 6000, 2000) * 0.3
	}},
	{GenreJazz, func(p Profile) float64 {
		return band(p.TempoBPM, 80, 160, 40) * 0.3 +
			band(p.CrestDB, 12, 20, 6) * 0.4 +
			band(p.ZeroCrossingRate, 0.04, 0.12, 0.05) * 0.3
	}},
	{GenrePop, func(p Profile) float64 {
		return band(p.TempoBPM, 95, 130, 20) * 0.4 +
			band(p.CrestDB, 7, 11, 3) * 0.3 +
			band(p.SpectralCentroid, 1800, 3500, 1200) * 0.3
	}},
	{GenreHipHop, func(p Profile) float64 {
		return band(p.TempoBPM, 70, 100, 15) * 0.5 +
			band(p.CrestDB, 5, 9, 3) * 0.5
	}},
	{GenreAcoustic, func(p Profile) float64 {
		return band(p.CrestDB, 13, 22, 6) * 0.5 +
			band(p.SpectralCentroid, 800, 2500, 1000) * 0.3 +
			(1 - p.ZeroCrossingRate*10) * 0.2
	}},
	{GenreAmbient, func(p Profile) float64 {
		return band(p.TempoBPM, 0, 80, 30) * 0.3 +
			band(p.CrestDB, 16, 30, 8) * 0.4 +
			band(p.SpectralCentroid, 500, 2000, 1500) * 0.3
	}},
}

// band scores x's membership in [lo,hi], falling off linearly over a
// margin-width region outside the band rather than cutting off sharply.
func band(x, lo, hi, margin float64) float64 {
	if x >= lo && x <= hi {
		return 1
	}
	var dist float64
	if x < lo {
		dist = lo - x
	} else {
		dist = x - hi
	}
	if margin <= 0 {
		return 0
	}
	score := 1 - dist/margin
	if score < 0 {
		return 0
	}
	return score
}

// ClassifyGenre scores profile against the fixed rule set, returning the
// top-scoring genre and its confidence. Below the confidence threshold the
// default tag is pop at confidence 0.5, per the component contract.
func ClassifyGenre(p Profile) (Genre, float64) {
	var best Genre
	bestScore := -1.0
	for _, rule := range genreRules {
		s := rule.score(p)
		if s > bestScore {
			bestScore, best = s, rule.genre
		}
	}
	if bestScore < genreConfidenceThreshold {
		return GenrePop, 0.5
	}
	return best, bestScore
}
