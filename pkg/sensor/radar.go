package sensor

import "deadsignal/pkg/location"

// RadarWobbleDegrees is the maximum deviation of the radar blip.
const RadarWobbleDegrees = 5.0

// RadarWobble perturbs trueBearing by a uniform offset in ±RadarWobbleDegrees
// and returns it in [0,360).
func RadarWobble(rng Source, trueBearing float64) float64 {
	offset := (rng.Float64()*2 - 1) * RadarWobbleDegrees
	return location.NormalizeBearing(trueBearing + offset)
}
