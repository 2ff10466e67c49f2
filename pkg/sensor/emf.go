package sensor

import "math"

// EMFLevel is the 0-5 bar reading of the EMF meter.
type EMFLevel int

const (
	EMFNone EMFLevel = iota
	EMFFaint
	EMFLow
	EMFMedium
	EMFHigh
	EMFMax
)

// Personality biases how a ghost registers on the EMF meter.
type Personality string

const (
	PersonalityNeutral   Personality = ""
	PersonalityExcitable Personality = "excitable"
	PersonalityShy       Personality = "shy"
)

// distanceScale is how far away the ghost "feels" to the meter.
func (p Personality) distanceScale() float64 {
	switch p {
	case PersonalityExcitable:
		return 0.75
	case PersonalityShy:
		return 1.25
	default:
		return 1
	}
}

// EMFLevelFor maps a distance in meters to an EMF level. Bands are half-open
// with the boundary belonging to the weaker band: <3 is 5, [3,6) is 4, [6,10)
// is 3, [10,20) is 2, [20,40) is 1 and anything further (or NaN) is 0.
func EMFLevelFor(distanceMeters float64, p Personality) EMFLevel {
	d := distanceMeters * p.distanceScale()
	switch {
	case math.IsNaN(d):
		return EMFNone
	case d < 3:
		return EMFMax
	case d < 6:
		return EMFHigh
	case d < 10:
		return EMFMedium
	case d < 20:
		return EMFLow
	case d < 40:
		return EMFFaint
	default:
		return EMFNone
	}
}

// Strong reports whether the reading is high enough for the camera to catch anything.
func (l EMFLevel) Strong() bool {
	return l >= EMFMedium
}
