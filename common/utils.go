package common

import (
	"cmp"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed interval [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}

// WrapAngle wraps an angle in radians into [-π, π).
func WrapAngle(a float32) float32 {
	w := math.Mod(float64(a)+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return float32(w - math.Pi)
}

// IsFinite reports whether every element of the slice is neither NaN nor infinite.
func IsFinite(values ...float32) bool {
	for _, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// ScaleToFramebuffer converts a position in window units to framebuffer pixels.
// The two differ on high-DPI displays, where the framebuffer is larger than the window.
// A zero window size leaves the position unchanged.
//
// Parameters:
//   - x, y: the position in window units
//   - winW, winH: the window size in window units
//   - fbW, fbH: the framebuffer size in pixels
//
// Returns:
//   - float32: x in framebuffer pixels
//   - float32: y in framebuffer pixels
func ScaleToFramebuffer(x, y float32, winW, winH, fbW, fbH int) (float32, float32) {
	if winW > 0 && fbW > 0 {
		x *= float32(fbW) / float32(winW)
	}
	if winH > 0 && fbH > 0 {
		y *= float32(fbH) / float32(winH)
	}
	return x, y
}
