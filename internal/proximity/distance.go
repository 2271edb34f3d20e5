package proximity

import (
	"math"

	"github.com/UnknownOlympus/functions/internal/models"
)

// statuteMilesPerDegree converts an arc in degrees to statute miles:
// 60 nautical miles per degree, 1.1515 statute miles per nautical mile.
const statuteMilesPerDegree = 60 * 1.1515

// Distance returns the distance in statute miles between two points using the
// spherical law of cosines. Identical points are exactly 0 apart.
func Distance(from, to models.Coordinates) float64 {
	if from.Latitude == to.Latitude && from.Longitude == to.Longitude {
		return 0
	}

	radLatFrom := math.Pi * from.Latitude / 180
	radLatTo := math.Pi * to.Latitude / 180
	theta := from.Longitude - to.Longitude
	radTheta := math.Pi * theta / 180

	cosine := math.Sin(radLatFrom)*math.Sin(radLatTo) +
		math.Cos(radLatFrom)*math.Cos(radLatTo)*math.Cos(radTheta)
	// Rounding can push the cosine slightly outside the domain of acos.
	cosine = min(max(cosine, -1), 1)

	degrees := math.Acos(cosine) * 180 / math.Pi

	return degrees * statuteMilesPerDegree
}
