// Package fake implements a fiducial source whose detections are set directly.
package fake

import (
	"context"
	"sync"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/vision/fiducial"
)

// Model is the model name of the fake fiducial source.
const Model = resource.Model("fake")

// Config describes the configuration of a fake fiducial source.
type Config struct {
	// Detections is the snapshot reported until SetDetections is called.
	Detections []fiducial.Detection `json:"detections,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) ([]string, error) {
	return nil, nil
}

// Register adds the fake fiducial source to the given registry.
func Register(reg *resource.Registry) {
	resource.Register[fiducial.Source, *Config](reg, fiducial.API, Model, NewSource)
}

// Source reports whatever detections it was last given.
type Source struct {
	resource.Named

	mu         sync.Mutex
	detections []fiducial.Detection
	err        error
	calls      int
	logger     logging.Logger
}

// NewSource instantiates a new fiducial source of the fake model type.
func NewSource(ctx context.Context, _ resource.Dependencies, conf resource.Config, logger logging.Logger) (fiducial.Source, error) {
	s := &Source{Named: conf.ResourceName().AsNamed(), logger: logger}
	if cfg, ok := conf.ConvertedAttributes.(*Config); ok {
		s.detections = fiducial.CloneAll(cfg.Detections)
	}
	logger.Debugw("fake fiducial source ready", "detections", len(s.detections))
	return s, nil
}

// NewTestSource returns a fake source with the given name and initial detections.
func NewTestSource(name string, detections ...fiducial.Detection) *Source {
	return &Source{
		Named:      fiducial.Named(name).AsNamed(),
		detections: fiducial.CloneAll(detections),
		logger:     logging.NewBlankLogger(name),
	}
}

// SetDetections replaces the current snapshot.
func (s *Source) SetDetections(detections ...fiducial.Detection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detections = fiducial.CloneAll(detections)
	s.logger.Debugw("detections replaced", "detections", len(detections))
}

// SetError makes CurrentDetections fail with err until it is cleared with nil.
func (s *Source) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// CurrentDetections returns a copy of the current snapshot.
func (s *Source) CurrentDetections(ctx context.Context) ([]fiducial.Detection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return fiducial.CloneAll(s.detections), nil
}

// Calls returns how many times CurrentDetections was called.
func (s *Source) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Close does nothing.
func (s *Source) Close(ctx context.Context) error {
	return nil
}
