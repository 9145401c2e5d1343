// Package locator defines the locator service: anything that can tell the robot where it is.
package locator

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
	"go.viam.com/fieldbot/spatialmath"
)

// SubtypeName is the name of the type of service.
const SubtypeName = "locator"

// API is a variable that identifies the locator service resource API.
var API = resource.APIService(SubtypeName)

// DefaultFieldEnvelope is the size of a standard competition field: 144 by 144 inches with a
// full turn of heading.
var DefaultFieldEnvelope = spatialmath.NewMovement(144, 144, 360)

// A Locator estimates the planar pose of the robot.
type Locator interface {
	resource.Resource

	// Location returns the current pose estimate. When no estimate can be made this cycle the
	// error is a *LocatorError; callers should treat it as "no update" rather than a failure.
	Location(ctx context.Context) (LocalizedMovement, error)

	// Kind reports which frame Location's poses are expressed in.
	Kind() Kind

	// ValidityEnvelope bounds the poses Location can legitimately return as
	// (width, length, angular range).
	ValidityEnvelope() spatialmath.Movement
}

// LocalizedMovement is a pose along with the locator that produced it.
type LocalizedMovement struct {
	spatialmath.Movement
	// Source is the locator that produced the pose. It is a reference only; the pose does not
	// keep the locator alive.
	Source Locator `json:"-"`
}

// NewLocalizedMovement returns a pose produced by source.
func NewLocalizedMovement(pose spatialmath.Movement, source Locator) LocalizedMovement {
	return LocalizedMovement{Movement: pose, Source: source}
}

// Kind is the frame a locator's poses are expressed in.
type Kind int

// Known kinds.
const (
	// ObjectRelative poses are relative to a detected object, such as a fiducial marker.
	ObjectRelative Kind = iota
	// FieldRelative poses are relative to a fixed origin on the field.
	FieldRelative
)

func (k Kind) String() string {
	switch k {
	case ObjectRelative:
		return "object_relative"
	case FieldRelative:
		return "field_relative"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind as its string form.
func (k Kind) MarshalText() ([]byte, error) {
	if k != ObjectRelative && k != FieldRelative {
		return nil, errors.Errorf("unknown locator kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its string form.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "object_relative":
		*k = ObjectRelative
	case "field_relative":
		*k = FieldRelative
	default:
		return errors.Errorf("unknown locator kind %q", string(text))
	}
	return nil
}

// Named is a helper for getting the named locator's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named locator from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Locator, error) {
	return resource.FromDependencies[Locator](deps, Named(name))
}

// FromRobot is a helper for getting the named locator from the given Robot.
func FromRobot(r robot.Robot, name string) (Locator, error) {
	return robot.ResourceFromRobot[Locator](r, Named(name))
}

// NamesFromRobot is a helper for getting all locator names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}

// Loggable is implemented by locators that can dump the inputs behind their current estimate.
type Loggable interface {
	Log(ctx context.Context)
}
