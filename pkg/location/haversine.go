package location

import (
	"math"
	"time"
)

// EarthRadiusKm is the Earth radius in kilometers for Haversine.
const EarthRadiusKm = 6371.0

// EarthRadiusMeters is EarthRadiusKm in meters.
const EarthRadiusMeters = EarthRadiusKm * 1000

// GeoPosition is a WGS84 fix as reported by the device. Accuracy and Timestamp
// are carried for the caller; the math only reads Lat and Lng.
type GeoPosition struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

// HaversineKm returns distance in km between two points (lat/lng in degrees).
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lng2 - lng1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceMeters is the great-circle distance between a and b in meters.
// Identical positions give exactly 0.
func DistanceMeters(a, b GeoPosition) float64 {
	return HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng) * 1000
}

// Bearing returns the initial great-circle bearing from a towards b in [0,360).
// The bearing between identical positions is undefined; 0 is returned.
func Bearing(a, b GeoPosition) float64 {
	if a.Lat == b.Lat && a.Lng == b.Lng {
		return 0
	}
	φ1, φ2 := rad(a.Lat), rad(b.Lat)
	Δλ := rad(b.Lng - a.Lng)
	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	return NormalizeBearing(deg(math.Atan2(y, x)))
}

// NormalizeBearing maps any finite angle in degrees into [0,360).
func NormalizeBearing(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// -1e-15 + 360 rounds to 360
	if d >= 360 {
		d = 0
	}
	return d
}

// Destination returns the point reached by travelling distanceMeters from
// origin along the given initial bearing.
func Destination(origin GeoPosition, bearingDeg, distanceMeters float64) GeoPosition {
	δ := distanceMeters / EarthRadiusMeters
	θ := rad(bearingDeg)
	φ1 := rad(origin.Lat)
	λ1 := rad(origin.Lng)
	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))
	lng := math.Mod(deg(λ2)+540, 360) - 180
	return GeoPosition{Lat: deg(φ2), Lng: lng}
}
