// Package fake implements a fake base.
package fake

import (
	"context"
	"sync"

	"go.viam.com/fieldbot/components/base"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/spatialmath"
)

// Model is the model name of the fake base.
const Model = resource.Model("fake")

// Register adds the fake base to the given registry.
func Register(reg *resource.Registry) {
	resource.Register[base.Base, resource.NoNativeConfig](reg, base.API, Model, NewBase)
}

// Base is a fake base that records what it was provided in each method and reports every
// command as driving all four wheels at its longitudinal component.
type Base struct {
	resource.Named

	// SetVelocityErr, when set, is returned from SetVelocity.
	SetVelocityErr error
	StopCount      int
	CloseCount     int

	mu         sync.Mutex
	commands   []spatialmath.Movement
	lastPowers base.WheelPowers
	logger     logging.Logger
}

// NewBase instantiates a new base of the fake model type.
func NewBase(ctx context.Context, _ resource.Dependencies, conf resource.Config, logger logging.Logger) (base.Base, error) {
	return &Base{Named: conf.ResourceName().AsNamed(), logger: logger}, nil
}

// NewTestBase returns a fake base with the given name and a blank logger.
func NewTestBase(name string) *Base {
	return &Base{Named: base.Named(name).AsNamed(), logger: logging.NewBlankLogger(name)}
}

// SetVelocity records the command.
func (b *Base) SetVelocity(
	ctx context.Context, command spatialmath.Movement, extra map[string]interface{},
) (base.WheelPowers, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SetVelocityErr != nil {
		return base.WheelPowers{}, b.SetVelocityErr
	}
	b.commands = append(b.commands, command)
	b.lastPowers = base.WheelPowers{FrontLeft: command.Y, FrontRight: command.Y, BackLeft: command.Y, BackRight: command.Y}
	return b.lastPowers, nil
}

// Stop records the stop.
func (b *Base) Stop(ctx context.Context, extra map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.StopCount++
	b.lastPowers = base.WheelPowers{}
	return nil
}

// Log writes the last command.
func (b *Base) Log(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.commands) == 0 {
		return
	}
	b.logger.Infow("fake base", "command", b.commands[len(b.commands)-1], "powers", b.lastPowers)
}

// Commands returns every command received, oldest first.
func (b *Base) Commands() []spatialmath.Movement {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]spatialmath.Movement(nil), b.commands...)
}

// Close does nothing.
func (b *Base) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}
