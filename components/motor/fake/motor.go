// Package fake implements a fake motor.
package fake

import (
	"context"
	"math"
	"sync"

	"go.viam.com/fieldbot/components/motor"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
)

// Model is the model name of the fake motor.
const Model = resource.Model("fake")

// Config describes the configuration of a fake motor.
type Config struct {
	// DirectionFlip reverses the motor before its owner configures a direction, the way a motor
	// wired backwards would.
	DirectionFlip bool `json:"direction_flip,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	return nil, nil
}

// Register adds the fake motor to the given registry.
func Register(reg *resource.Registry) {
	resource.Register[motor.Motor, *Config](reg, motor.API, Model, NewMotor)
}

// A Motor allows setting and reading a set power percentage. The power it would actually drive
// (after applying its direction) is kept separately so tests can check wiring.
type Motor struct {
	resource.Named

	mu                sync.Mutex
	powerPct          float64
	direction         motor.Direction
	flip              bool
	zeroPowerBehavior motor.ZeroPowerBehavior
	history           []float64
	closed            bool
	logger            logging.Logger
}

// NewMotor instantiates a new motor of the fake model type.
func NewMotor(ctx context.Context, _ resource.Dependencies, conf resource.Config, logger logging.Logger) (motor.Motor, error) {
	m := &Motor{Named: conf.ResourceName().AsNamed(), logger: logger}
	if cfg, ok := conf.ConvertedAttributes.(*Config); ok {
		m.flip = cfg.DirectionFlip
	}
	return m, nil
}

// NewTestMotor returns a fake motor with the given name, for use in tests of motor owners.
func NewTestMotor(name string, logger logging.Logger) *Motor {
	return &Motor{Named: motor.Named(name).AsNamed(), logger: logger}
}

// SetPower sets the given power percentage.
func (m *Motor) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	if err := motor.CheckPower(powerPct); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Debugf("Motor SetPower %f", powerPct)
	m.powerPct = powerPct
	m.history = append(m.history, powerPct)
	return nil
}

// Stop has the motor pretend to be off.
func (m *Motor) Stop(ctx context.Context, extra map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger.Debug("Motor Stopped")
	m.powerPct = 0
	return nil
}

// IsPowered returns if the motor is pretending to be on or not, and its power level.
func (m *Motor) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return math.Abs(m.powerPct) >= 0.005, m.powerPct, nil
}

// SetDirection sets the rotation sign convention.
func (m *Motor) SetDirection(ctx context.Context, dir motor.Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.direction = dir
	return nil
}

// SetZeroPowerBehavior sets what the motor does at zero power.
func (m *Motor) SetZeroPowerBehavior(ctx context.Context, behavior motor.ZeroPowerBehavior) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zeroPowerBehavior = behavior
	return nil
}

// PowerPct returns the last power set.
func (m *Motor) PowerPct() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct
}

// DrivenPower returns the power after the direction and wiring flip are applied.
func (m *Motor) DrivenPower() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.powerPct * m.direction.Sign()
	if m.flip {
		out = -out
	}
	return out
}

// Direction returns the configured direction.
func (m *Motor) Direction() motor.Direction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direction
}

// ZeroPowerBehavior returns the configured zero power behavior.
func (m *Motor) ZeroPowerBehavior() motor.ZeroPowerBehavior {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zeroPowerBehavior
}

// History returns every power passed to SetPower, oldest first.
func (m *Motor) History() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.history...)
}

// Closed reports whether Close was called.
func (m *Motor) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close stops the motor.
func (m *Motor) Close(ctx context.Context) error {
	err := m.Stop(ctx, nil)
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return err
}
