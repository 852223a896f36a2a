// Package core provides the buffer, geometry, and input types shared by all
// games. It has no external dependencies (especially no Bubble Tea) so that
// game logic stays pure and testable.
package core

import "math"

// Rect is an axis-aligned integer box with its top-left corner at X, Y.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point (x, y) lies inside r. The right and
// bottom edges are exclusive, so a zero-sized Rect contains nothing.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Reflect corrects a coordinate that left [lo, hi).
// If pos is outside, the velocity is negated and applied once, which returns
// the entity to where it was on the previous tick. The result is clamped so
// that it always lies inside [lo, hi). The boolean reports whether a
// reflection happened.
func Reflect(pos, vel, lo, hi float64) (float64, float64, bool) {
	if pos >= lo && pos < hi {
		return pos, vel, false
	}
	vel = -vel
	pos += vel
	return ClampF(pos, lo, math.Nextafter(hi, lo)), vel, true
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
