package sensor

import "math"

// Manifestation is an anomaly that may show up on a photo.
type Manifestation struct {
	Primary     string  `json:"primary"`
	Probability float64 `json:"probability"`
}

// Camera falloff: full declared odds up to CameraFullOddsMeters, decaying
// linearly to zero at CameraCutoffMeters.
const (
	CameraFullOddsMeters = 3.0
	CameraCutoffMeters   = 20.0
)

// ManifestationFavorability is the multiplier applied to a manifestation's
// declared probability at the given distance, in [0,1].
func ManifestationFavorability(distanceMeters float64) float64 {
	switch {
	case math.IsNaN(distanceMeters):
		return 0
	case distanceMeters <= CameraFullOddsMeters:
		return 1
	case distanceMeters >= CameraCutoffMeters:
		return 0
	default:
		return (CameraCutoffMeters - distanceMeters) / (CameraCutoffMeters - CameraFullOddsMeters)
	}
}

// CameraManifestation rolls each manifestation in order and returns the first
// one that fires. ok is false when nothing shows up. Negative or NaN
// probabilities never fire; probabilities above 1 are clamped.
func CameraManifestation(rng Source, distanceMeters float64, ms []Manifestation) (primary string, ok bool) {
	fav := ManifestationFavorability(distanceMeters)
	if fav <= 0 {
		return "", false
	}
	for _, m := range ms {
		if !(m.Probability > 0) {
			continue
		}
		p := math.Min(m.Probability, 1) * fav
		if rng.Float64() < p {
			return m.Primary, true
		}
	}
	return "", false
}
