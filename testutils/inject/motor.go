package inject

import (
	"context"

	"go.viam.com/fieldbot/components/motor"
	"go.viam.com/fieldbot/resource"
)

// Motor is an injected motor.
type Motor struct {
	motor.Motor
	name                     resource.Name
	SetPowerFunc             func(ctx context.Context, powerPct float64, extra map[string]interface{}) error
	StopFunc                 func(ctx context.Context, extra map[string]interface{}) error
	IsPoweredFunc            func(ctx context.Context, extra map[string]interface{}) (bool, float64, error)
	SetDirectionFunc         func(ctx context.Context, dir motor.Direction) error
	SetZeroPowerBehaviorFunc func(ctx context.Context, behavior motor.ZeroPowerBehavior) error
	CloseFunc                func(ctx context.Context) error
}

// NewMotor returns a new injected motor.
func NewMotor(name string) *Motor {
	return &Motor{name: motor.Named(name)}
}

// Name returns the name of the resource, falling back to the wrapped motor's name.
func (m *Motor) Name() resource.Name {
	if m.name == (resource.Name{}) && m.Motor != nil {
		return m.Motor.Name()
	}
	return m.name
}

// SetPower calls the injected SetPower or the real version.
func (m *Motor) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	if m.SetPowerFunc == nil {
		return m.Motor.SetPower(ctx, powerPct, extra)
	}
	return m.SetPowerFunc(ctx, powerPct, extra)
}

// Stop calls the injected Stop or the real version.
func (m *Motor) Stop(ctx context.Context, extra map[string]interface{}) error {
	if m.StopFunc == nil {
		return m.Motor.Stop(ctx, extra)
	}
	return m.StopFunc(ctx, extra)
}

// IsPowered calls the injected IsPowered or the real version.
func (m *Motor) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	if m.IsPoweredFunc == nil {
		return m.Motor.IsPowered(ctx, extra)
	}
	return m.IsPoweredFunc(ctx, extra)
}

// SetDirection calls the injected SetDirection or the real version. A wrapped motor that is not
// configurable yields the not configurable error.
func (m *Motor) SetDirection(ctx context.Context, dir motor.Direction) error {
	if m.SetDirectionFunc == nil {
		configurable, ok := m.Motor.(motor.Configurable)
		if !ok {
			return motor.NewNotConfigurableError(m.Name().Name)
		}
		return configurable.SetDirection(ctx, dir)
	}
	return m.SetDirectionFunc(ctx, dir)
}

// SetZeroPowerBehavior calls the injected SetZeroPowerBehavior or the real version.
func (m *Motor) SetZeroPowerBehavior(ctx context.Context, behavior motor.ZeroPowerBehavior) error {
	if m.SetZeroPowerBehaviorFunc == nil {
		configurable, ok := m.Motor.(motor.Configurable)
		if !ok {
			return motor.NewNotConfigurableError(m.Name().Name)
		}
		return configurable.SetZeroPowerBehavior(ctx, behavior)
	}
	return m.SetZeroPowerBehaviorFunc(ctx, behavior)
}

// Close calls the injected Close or the real version.
func (m *Motor) Close(ctx context.Context) error {
	if m.CloseFunc == nil {
		if m.Motor == nil {
			return nil
		}
		return m.Motor.Close(ctx)
	}
	return m.CloseFunc(ctx)
}
