package location

import (
	"math"
	"testing"
)

func TestInForwardCone(t *testing.T) {
	tests := []struct {
		name                 string
		target, facing, half float64
		want                 bool
	}{
		{"dead ahead on edge", 45, 45, 45, true},
		{"behind", 180, 0, 45, false},
		{"wraparound", 10, 350, 45, true},
		{"wraparound reversed", 350, 10, 45, true},
		{"camera edge", 15, 0, CameraConeHalfAngle, true},
		{"camera just outside", 15.1, 0, CameraConeHalfAngle, false},
		{"negative half angle", 0, 0, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InForwardCone(tt.target, tt.facing, tt.half); got != tt.want {
				t.Fatalf("InForwardCone(%v, %v, %v) = %v, want %v", tt.target, tt.facing, tt.half, got, tt.want)
			}
		})
	}
}

func TestAngularDifference_Symmetric(t *testing.T) {
	for a := -720.0; a <= 720; a += 37 {
		for b := -720.0; b <= 720; b += 53 {
			ab, ba := AngularDifference(a, b), AngularDifference(b, a)
			if math.Abs(ab-ba) > 1e-9 {
				t.Fatalf("AngularDifference(%v,%v)=%v but reversed=%v", a, b, ab, ba)
			}
			if ab < 0 || ab > 180 {
				t.Fatalf("difference %v out of [0,180]", ab)
			}
		}
	}
}

func TestAngularDifference_Wraparound(t *testing.T) {
	if got := AngularDifference(350, 10); math.Abs(got-20) > 1e-9 {
		t.Fatalf("got %v, want 20", got)
	}
}
