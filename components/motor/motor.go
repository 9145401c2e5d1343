// Package motor defines the actuator outputs driven by a base: anything that accepts a
// normalized power between -1 and 1.
package motor

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
)

// SubtypeName is a constant that identifies the component resource API string "motor".
const SubtypeName = "motor"

// API is a variable that identifies the component resource API.
var API = resource.APIComponent(SubtypeName)

// A Motor represents a physical motor driving one wheel or mechanism.
type Motor interface {
	resource.Resource

	// SetPower sets the percentage of power the motor should employ between -1 and 1.
	// Negative power corresponds to a backward direction of rotation.
	SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error

	// Stop sets the power to zero, after which the motor follows its zero power behavior.
	Stop(ctx context.Context, extra map[string]interface{}) error

	// IsPowered returns whether or not the motor is currently on, and the power it was last set to.
	IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error)
}

// Configurable is implemented by motors whose rotation sign convention and zero power behavior
// can be set. Both are set once, when the owner of the motor is constructed.
type Configurable interface {
	SetDirection(ctx context.Context, dir Direction) error
	SetZeroPowerBehavior(ctx context.Context, behavior ZeroPowerBehavior) error
}

// Direction is the rotation sign convention of a motor.
type Direction int

// Known directions.
const (
	// DirectionForward passes powers through unchanged.
	DirectionForward Direction = iota
	// DirectionReverse negates every power.
	DirectionReverse
)

// Sign returns the multiplier applied to powers.
func (d Direction) Sign() float64 {
	if d == DirectionReverse {
		return -1
	}
	return 1
}

func (d Direction) String() string {
	if d == DirectionReverse {
		return "reverse"
	}
	return "forward"
}

// DirectionFromString parses "forward" or "reverse". The empty string is forward.
func DirectionFromString(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "forward":
		return DirectionForward, nil
	case "reverse":
		return DirectionReverse, nil
	default:
		return DirectionForward, errors.Errorf("unknown motor direction %q, expected forward or reverse", s)
	}
}

// ZeroPowerBehavior is what a motor does when its power is zero.
type ZeroPowerBehavior int

// Known zero power behaviors.
const (
	// ZeroPowerFloat lets the motor coast.
	ZeroPowerFloat ZeroPowerBehavior = iota
	// ZeroPowerBrake shorts the motor so it resists motion.
	ZeroPowerBrake
)

func (b ZeroPowerBehavior) String() string {
	if b == ZeroPowerBrake {
		return "brake"
	}
	return "float"
}

// ZeroPowerBehaviorFromString parses "float" or "brake". The empty string is float.
func ZeroPowerBehaviorFromString(s string) (ZeroPowerBehavior, error) {
	switch strings.ToLower(s) {
	case "", "float":
		return ZeroPowerFloat, nil
	case "brake":
		return ZeroPowerBrake, nil
	default:
		return ZeroPowerFloat, errors.Errorf("unknown zero power behavior %q, expected float or brake", s)
	}
}

// Named is a helper for getting the named Motor's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named motor from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Motor, error) {
	return resource.FromDependencies[Motor](deps, Named(name))
}

// FromRobot is a helper for getting the named motor from the given Robot.
func FromRobot(r robot.Robot, name string) (Motor, error) {
	return robot.ResourceFromRobot[Motor](r, Named(name))
}

// CheckPower returns an error if pwr is not a finite value in [-1, 1].
func CheckPower(pwr float64) error {
	if math.IsNaN(pwr) || math.Abs(pwr) > 1 {
		return NewInvalidPowerError(pwr)
	}
	return nil
}
