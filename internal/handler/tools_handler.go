package handler

import (
	"math"
	"net/http"
	"strconv"

	"deadsignal/internal/domain"
	"deadsignal/pkg/location"
	"deadsignal/pkg/proximity"
	"deadsignal/pkg/sensor"

	"github.com/gin-gonic/gin"
)

// ToolsHandler exposes the sensor math without a hunt, for the field guide and
// for calibrating the app against the server.
type ToolsHandler struct {
	signalRadius float64
}

func NewToolsHandler(signalRadius float64) *ToolsHandler {
	return &ToolsHandler{signalRadius: signalRadius}
}

// queryFloats parses the named query params, writing a 400 on the first bad one.
func queryFloats(c *gin.Context, names ...string) ([]float64, bool) {
	out := make([]float64, len(names))
	for i, n := range names {
		v, err := strconv.ParseFloat(c.Query(n), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing " + n})
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (h *ToolsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": []string{
		domain.ToolEMF, domain.ToolThermal, domain.ToolCamera, domain.ToolSpiritBox, domain.ToolRadar,
	}})
}

// Distance handles GET /tools/distance?from_lat=&from_lng=&to_lat=&to_lng=.
func (h *ToolsHandler) Distance(c *gin.Context) {
	v, ok := queryFloats(c, "from_lat", "from_lng", "to_lat", "to_lng")
	if !ok {
		return
	}
	from := location.GeoPosition{Lat: v[0], Lng: v[1]}
	to := location.GeoPosition{Lat: v[2], Lng: v[3]}
	dist := location.DistanceMeters(from, to)
	c.JSON(http.StatusOK, gin.H{
		"distance_meters": dist,
		"distance_km":     location.HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng),
		"bearing":         location.Bearing(from, to),
		"proximity":       proximity.For(dist, h.signalRadius),
	})
}

// EMF handles GET /tools/emf?distance=&personality=.
func (h *ToolsHandler) EMF(c *gin.Context) {
	v, ok := queryFloats(c, "distance")
	if !ok {
		return
	}
	p := sensor.Personality(c.Query("personality"))
	switch p {
	case sensor.PersonalityNeutral, sensor.PersonalityExcitable, sensor.PersonalityShy:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown personality"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"level": sensor.EMFLevelFor(v[0], p)})
}

// Thermal handles GET /tools/thermal?distance=&category=.
func (h *ToolsHandler) Thermal(c *gin.Context) {
	v, ok := queryFloats(c, "distance")
	if !ok {
		return
	}
	cat := sensor.ThermalCategory(c.DefaultQuery("category", string(sensor.ThermalNormal)))
	switch cat {
	case sensor.ThermalNormal, sensor.ThermalColdSpot, sensor.ThermalDeepCold:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown thermal category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reading": sensor.ThermalReadingFor(v[0], cat)})
}

// Camera handles GET /tools/camera?distance=.
func (h *ToolsHandler) Camera(c *gin.Context) {
	v, ok := queryFloats(c, "distance")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorability": sensor.ManifestationFavorability(v[0])})
}

// Cone handles GET /tools/cone?bearing=&heading=[&half_angle=].
// half_angle defaults to the camera cone.
func (h *ToolsHandler) Cone(c *gin.Context) {
	v, ok := queryFloats(c, "bearing", "heading")
	if !ok {
		return
	}
	half := location.CameraConeHalfAngle
	if s := c.Query("half_angle"); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < 0 || f > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid half_angle"})
			return
		}
		half = f
	}
	c.JSON(http.StatusOK, gin.H{
		"in_cone":    location.InForwardCone(v[0], v[1], half),
		"difference": location.AngularDifference(v[0], v[1]),
		"half_angle": half,
	})
}

// SpiritBox handles GET /tools/spirit-box?target_a=&target_b=&knob_a=&knob_b=&tolerance=.
func (h *ToolsHandler) SpiritBox(c *gin.Context) {
	v, ok := queryFloats(c, "target_a", "target_b", "knob_a", "knob_b", "tolerance")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": sensor.SpiritBoxLocked(v[0], v[1], v[2], v[3], v[4])})
}
