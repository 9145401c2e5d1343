// Package spatialmath defines the planar spatial types shared by the drive and localization code.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Movement is a planar 3-DOF vector. It is used both as a velocity command and as a pose, and
// carries no units of its own: X is lateral (right is positive), Y is longitudinal (forward is
// positive) and Theta is angular (counter-clockwise is positive).
type Movement struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// NewMovement returns a Movement from its lateral, longitudinal and angular components.
func NewMovement(x, y, theta float64) Movement {
	return Movement{X: x, Y: y, Theta: theta}
}

// NewMovementFromVectors builds a Movement from a linear and an angular vector using the
// base convention where linear.Y is forward and angular.Z is the rotation about the vertical axis.
func NewMovementFromVectors(linear, angular r3.Vector) Movement {
	return Movement{X: linear.X, Y: linear.Y, Theta: angular.Z}
}

// IsFinite reports whether every component is a finite number.
func (m Movement) IsFinite() bool {
	for _, v := range []float64{m.X, m.Y, m.Theta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AlmostEqual returns true if every component of m is within epsilon of the same component of other.
func (m Movement) AlmostEqual(other Movement, epsilon float64) bool {
	return math.Abs(m.X-other.X) <= epsilon &&
		math.Abs(m.Y-other.Y) <= epsilon &&
		math.Abs(m.Theta-other.Theta) <= epsilon
}

func (m Movement) String() string {
	return fmt.Sprintf("<%f, %f, %f>", m.X, m.Y, m.Theta)
}
