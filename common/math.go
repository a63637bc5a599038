package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	// SkinWidth keeps ray origins strictly inside a body.
	SkinWidth = 0.015
	// DefaultRaySpacing is the max distance between two rays of a fan.
	DefaultRaySpacing = 0.25
	// FixedDelta is the default physics tick.
	FixedDelta = 1.0 / 60.0
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func LerpVector(a, b cp.Vector, t float64) cp.Vector {
	return cp.Vector{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}

// Sign returns -1 for negative values and 1 otherwise, zero included.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// AngleFromUp returns the angle in degrees between n and the world up axis.
func AngleFromUp(n cp.Vector) float64 {
	l := n.Length()
	if l == 0 {
		return 0
	}
	return math.Acos(Clamp(n.Y/l, -1, 1)) * 180 / math.Pi
}

func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Finite reports whether both components are neither NaN nor infinite.
func Finite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// SmoothDamp moves current toward target as a critically damped spring.
// velocity carries the spring state between calls.
func SmoothDamp(current, target float64, velocity *float64, smoothTime, maxSpeed, dt float64) float64 {
	if dt <= 0 {
		return current
	}
	smoothTime = math.Max(0.0001, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	want := target
	maxChange := maxSpeed * smoothTime
	change = Clamp(change, -maxChange, maxChange)
	target = current - change

	temp := (*velocity + omega*change) * dt
	*velocity = (*velocity - omega*temp) * exp
	out := target + (change+temp)*exp

	// no overshoot
	if (want-current > 0) == (out > want) {
		out = want
		*velocity = (out - want) / dt
	}
	return out
}
