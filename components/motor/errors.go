package motor

import "github.com/pkg/errors"

// NewInvalidPowerError returns an error for a power outside of [-1, 1].
func NewInvalidPowerError(pwr float64) error {
	return errors.Errorf("motor power %v must be between -1 and 1", pwr)
}

// NewNotConfigurableError returns an error when a motor's direction or zero power behavior
// was requested but the motor does not support setting them.
func NewNotConfigurableError(motorName string) error {
	return errors.Errorf("motor named %s does not support setting direction or zero power behavior", motorName)
}
