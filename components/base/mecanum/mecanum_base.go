// Package mecanum implements a four wheel mecanum base that can translate in any planar direction
// while rotating.
package mecanum

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fieldbot/components/base"
	"go.viam.com/fieldbot/components/motor"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/spatialmath"
)

// Model is the model name of the mecanum base.
const Model = resource.Model("mecanum")

// Register adds the mecanum base to the given registry.
func Register(reg *resource.Registry) {
	resource.Register[base.Base, *Config](reg, base.API, Model, NewMecanumBase)
}

type mecanumBase struct {
	resource.Named
	kinematics *Kinematics

	// front left, front right, back left, back right
	motors [numWheels]motor.Motor

	mu          sync.Mutex
	lastCommand spatialmath.Movement
	lastPowers  base.WheelPowers

	logger logging.Logger
}

// NewMecanumBase returns a mecanum base that owns the four configured motors. The motors'
// directions and zero power behavior are set once, here.
func NewMecanumBase(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (base.Base, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	kinematics, err := newConf.kinematics()
	if err != nil {
		return nil, err
	}
	leftDir, rightDir, err := newConf.directions()
	if err != nil {
		return nil, err
	}
	behavior, err := motor.ZeroPowerBehaviorFromString(newConf.ZeroPowerBehavior)
	if err != nil {
		return nil, err
	}

	mb := &mecanumBase{
		Named:      conf.ResourceName().AsNamed(),
		kinematics: kinematics,
		logger:     logger,
	}
	wheels := []struct {
		name string
		dir  motor.Direction
	}{
		{newConf.FrontLeft, leftDir},
		{newConf.FrontRight, rightDir},
		{newConf.BackLeft, leftDir},
		{newConf.BackRight, rightDir},
	}
	for i, w := range wheels {
		m, err := motor.FromDependencies(deps, w.name)
		if err != nil {
			return nil, errors.Wrapf(err, "no motor named (%s)", w.name)
		}
		configurable, ok := m.(motor.Configurable)
		if !ok {
			return nil, motor.NewNotConfigurableError(w.name)
		}
		if err := configurable.SetDirection(ctx, w.dir); err != nil {
			return nil, errors.Wrapf(err, "setting direction of motor %s", w.name)
		}
		if err := configurable.SetZeroPowerBehavior(ctx, behavior); err != nil {
			return nil, errors.Wrapf(err, "setting zero power behavior of motor %s", w.name)
		}
		mb.motors[i] = m
	}
	logger.Debugw("mecanum base configured",
		"left_direction", leftDir, "right_direction", rightDir, "zero_power_behavior", behavior,
		"response_exponent", kinematics.ResponseExponent(), "max_output", kinematics.MaxOutput())
	return mb, nil
}

// SetVelocity computes the four wheel powers for the command and writes them to the motors.
// If any write fails every motor is stopped.
func (mb *mecanumBase) SetVelocity(
	ctx context.Context, command spatialmath.Movement, extra map[string]interface{},
) (base.WheelPowers, error) {
	mb.logger.Debugf("moving by vector: %s", command)
	powers, err := mb.kinematics.Powers(command)
	if err != nil {
		return base.WheelPowers{}, err
	}

	mb.logger.Debugw("setting motor power",
		"front_left", powers.FrontLeft,
		"front_right", powers.FrontRight,
		"back_left", powers.BackLeft,
		"back_right", powers.BackRight)
	for i, pwr := range powers.Slice() {
		if err := mb.motors[i].SetPower(ctx, pwr, extra); err != nil {
			return base.WheelPowers{}, multierr.Combine(
				errors.Wrapf(err, "setting power of motor %s", mb.motors[i].Name().Name),
				mb.Stop(ctx, nil))
		}
	}

	mb.mu.Lock()
	mb.lastCommand = command
	mb.lastPowers = powers
	mb.mu.Unlock()
	return powers, nil
}

// Stop commands every motor to zero power; each then follows its zero power behavior.
func (mb *mecanumBase) Stop(ctx context.Context, extra map[string]interface{}) error {
	var err error
	for _, m := range mb.motors {
		err = multierr.Combine(err, m.Stop(ctx, extra))
	}
	mb.mu.Lock()
	mb.lastPowers = base.WheelPowers{}
	mb.mu.Unlock()
	return err
}

// Log writes the last command and the powers committed for it.
func (mb *mecanumBase) Log(ctx context.Context) {
	mb.mu.Lock()
	command, powers := mb.lastCommand, mb.lastPowers
	mb.mu.Unlock()
	mb.logger.Infof("moving by vector: %s", command)
	mb.logger.Infow("motor power",
		"front_left", powers.FrontLeft,
		"front_right", powers.FrontRight,
		"back_left", powers.BackLeft,
		"back_right", powers.BackRight)
}

// Kinematics returns the pure mapping used by the base.
func (mb *mecanumBase) Kinematics() *Kinematics {
	return mb.kinematics
}

// Close stops the base. The motors are owned by the robot and closed there.
func (mb *mecanumBase) Close(ctx context.Context) error {
	return mb.Stop(ctx, nil)
}
