package proximity

// Label returns the hunt display label for a proximity progress (0-100).
// Progress = (1 - distance/maxRadius) * 100; 100 = on top of the ghost, 0 = at or beyond max radius.
func Label(progressPct float64) string {
	switch {
	case progressPct >= 90:
		return "Right On Top Of You"
	case progressPct >= 70:
		return "Very Close"
	case progressPct >= 40:
		return "Nearby"
	case progressPct > 0:
		return "Faint"
	default:
		return ""
	}
}

// Progress computes proximity progress: (1 - distance/maxRadius) * 100.
// If distance >= maxRadius, returns 0.
func Progress(distance, maxRadius float64) float64 {
	if !(maxRadius > 0) || !(distance < maxRadius) {
		return 0
	}
	p := (1 - distance/maxRadius) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// For is Label(Progress(distance, maxRadius)).
func For(distance, maxRadius float64) string {
	return Label(Progress(distance, maxRadius))
}
