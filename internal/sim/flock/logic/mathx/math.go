package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Normalize returns v scaled to unit length. A zero-length (or non-finite length)
// vector normalizes to the zero vector, so callers propagate a zero force instead of NaN.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Div divides each component by s. s must be non-zero.
func Div(v mgl64.Vec3, s float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0] / s, v[1] / s, v[2] / s}
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func IsFiniteVec(v mgl64.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

func IsZero(v mgl64.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Deg2Rad mirrors the degree-based FOV used in agent parameters.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}
