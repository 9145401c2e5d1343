// Package base defines the base that a robot uses to move around.
package base

import (
	"context"
	"fmt"
	"math"

	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
	"go.viam.com/fieldbot/spatialmath"
)

// SubtypeName is a constant that identifies the component resource API string "base".
const SubtypeName = "base"

// API is a variable that identifies the component resource API.
var API = resource.APIComponent(SubtypeName)

// A Base represents a physical base of a robot.
type Base interface {
	resource.Resource

	// SetVelocity converts a planar velocity command into wheel powers, writes them to the
	// wheels and returns what was written. The command is unitless: each component is expected
	// to lie in [-1, 1] but larger values are scaled down rather than rejected.
	SetVelocity(ctx context.Context, command spatialmath.Movement, extra map[string]interface{}) (WheelPowers, error)

	// Stop stops the base. It is assumed the base stops immediately.
	Stop(ctx context.Context, extra map[string]interface{}) error

	// Log writes the last command and the powers it produced to the base's logger.
	Log(ctx context.Context)
}

// WheelPowers are the powers committed to the four wheels of a base in one call.
type WheelPowers struct {
	FrontLeft  float64 `json:"front_left"`
	FrontRight float64 `json:"front_right"`
	BackLeft   float64 `json:"back_left"`
	BackRight  float64 `json:"back_right"`
}

// Slice returns the powers ordered front left, front right, back left, back right.
func (p WheelPowers) Slice() []float64 {
	return []float64{p.FrontLeft, p.FrontRight, p.BackLeft, p.BackRight}
}

// MaxAbs returns the largest magnitude of the four powers.
func (p WheelPowers) MaxAbs() float64 {
	var maxAbs float64
	for _, v := range p.Slice() {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	return maxAbs
}

func (p WheelPowers) String() string {
	return fmt.Sprintf("fl=%f fr=%f bl=%f br=%f", p.FrontLeft, p.FrontRight, p.BackLeft, p.BackRight)
}

// Named is a helper for getting the named Base's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named base from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Base, error) {
	return resource.FromDependencies[Base](deps, Named(name))
}

// FromRobot is a helper for getting the named base from the given Robot.
func FromRobot(r robot.Robot, name string) (Base, error) {
	return robot.ResourceFromRobot[Base](r, Named(name))
}

// NamesFromRobot is a helper for getting all base names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}
