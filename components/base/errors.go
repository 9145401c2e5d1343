package base

import (
	"github.com/pkg/errors"

	"go.viam.com/fieldbot/spatialmath"
)

// NewNonFiniteVelocityError returns an error for a velocity command that has a NaN or infinite
// component. No wheel is driven when this is returned.
func NewNonFiniteVelocityError(command spatialmath.Movement) error {
	return errors.Errorf("velocity command %s must be finite in every component", command)
}
