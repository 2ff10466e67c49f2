package sensor

// ThermalCategory is the intrinsic cold signature of a ghost type.
type ThermalCategory string

const (
	ThermalNormal   ThermalCategory = "normal"
	ThermalColdSpot ThermalCategory = "cold_spot"
	ThermalDeepCold ThermalCategory = "deep_cold"
)

// ThermalRangeMeters is the radius inside which cold effects are detectable.
const ThermalRangeMeters = 10.0

// Fixed readings in °F.
const (
	AmbientTemperatureF  = 68.0
	ColdSpotTemperatureF = 45.0
	DeepColdTemperatureF = 32.0
)

// ThermalReading is what the thermal scanner displays.
type ThermalReading struct {
	Temperature float64         `json:"temperature"`
	Category    ThermalCategory `json:"category"`
}

// ThermalReadingFor returns the scanner reading for a ghost of category c at
// the given distance. Past ThermalRangeMeters the reading is always ambient.
func ThermalReadingFor(distanceMeters float64, c ThermalCategory) ThermalReading {
	if !(distanceMeters <= ThermalRangeMeters) {
		return ThermalReading{Temperature: AmbientTemperatureF, Category: ThermalNormal}
	}
	switch c {
	case ThermalColdSpot:
		return ThermalReading{Temperature: ColdSpotTemperatureF, Category: ThermalColdSpot}
	case ThermalDeepCold:
		return ThermalReading{Temperature: DeepColdTemperatureF, Category: ThermalDeepCold}
	default:
		return ThermalReading{Temperature: AmbientTemperatureF, Category: ThermalNormal}
	}
}

// Cold reports whether the reading is below ambient.
func (r ThermalReading) Cold() bool {
	return r.Category != ThermalNormal
}
