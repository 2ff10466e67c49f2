package sensor

import "math"

// SpiritBoxSignature is the knob pair a ghost answers on.
type SpiritBoxSignature struct {
	KnobA     float64 `json:"knob_a"`
	KnobB     float64 `json:"knob_b"`
	Tolerance float64 `json:"tolerance"`
}

// SpiritBoxKnobs is the player's current tuning.
type SpiritBoxKnobs struct {
	KnobA float64 `json:"knob_a"`
	KnobB float64 `json:"knob_b"`
}

// SpiritBoxLocked reports whether both knobs are within tolerance of the target.
// A negative or NaN tolerance never locks.
func SpiritBoxLocked(targetA, targetB, currentA, currentB, tolerance float64) bool {
	if !(tolerance >= 0) {
		return false
	}
	return math.Abs(targetA-currentA) <= tolerance && math.Abs(targetB-currentB) <= tolerance
}

// Locked checks knobs against the signature.
func (s SpiritBoxSignature) Locked(k SpiritBoxKnobs) bool {
	return SpiritBoxLocked(s.KnobA, s.KnobB, k.KnobA, k.KnobB, s.Tolerance)
}
