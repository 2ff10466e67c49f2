package location

import "math"

// Cone half-angles used by the tools, in degrees either side of the heading.
const (
	CameraConeHalfAngle = 15.0
	RadarConeHalfAngle  = 45.0
)

// AngularDifference is the smallest angle between two bearings, in [0,180].
// 350 and 10 are 20 degrees apart.
func AngularDifference(a, b float64) float64 {
	d := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	return math.Min(d, 360-d)
}

// InForwardCone reports whether targetBearing lies within halfAngle degrees of
// facingHeading. A negative halfAngle never matches.
func InForwardCone(targetBearing, facingHeading, halfAngle float64) bool {
	return AngularDifference(targetBearing, facingHeading) <= halfAngle
}
