// Package robotimpl defines implementations of robot.Robot and robot.LocalRobot.
//
// A local robot builds every configured resource once, in dependency order, and closes them in
// reverse order when it is closed. Nothing is rebuilt after construction.
package robotimpl

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fieldbot/config"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
)

var _ = robot.LocalRobot(&localRobot{})

type localRobot struct {
	mu        sync.Mutex
	resources map[resource.Name]resource.Resource
	// construction order
	order   []resource.Name
	config  *config.Config
	loggers *logging.Registry
	logger  logging.Logger
	closed  bool
}

// New returns a new robot with every resource in cfg built using the constructors in reg. If any
// resource fails to build, the ones already built are closed and the error is returned.
func New(
	ctx context.Context,
	cfg *config.Config,
	reg *resource.Registry,
	logger logging.Logger,
) (robot.LocalRobot, error) {
	r := &localRobot{
		resources: map[resource.Name]resource.Resource{},
		config:    cfg,
		loggers:   logging.NewRegistry(),
		logger:    logger,
	}

	confs := cfg.Resources()
	for idx := range confs {
		if err := prepare(reg, &confs[idx]); err != nil {
			return nil, err
		}
	}
	sorted, err := config.SortResources(confs)
	if err != nil {
		return nil, err
	}

	shortNames := make(map[string]resource.Name, len(sorted))
	resLoggers := make(map[resource.Name]logging.Logger, len(sorted))
	for _, conf := range sorted {
		name := conf.ResourceName()
		shortNames[conf.Name] = name
		resLogger := logger.Sublogger(name.String())
		r.loggers.Register(resLogger)
		resLoggers[name] = resLogger
	}
	if err := r.loggers.Apply(cfg.LogConfig); err != nil {
		return nil, errors.Wrap(err, "applying log config")
	}

	for _, conf := range sorted {
		name := conf.ResourceName()
		deps := make(resource.Dependencies, len(conf.Dependencies()))
		for _, dep := range conf.Dependencies() {
			depName := shortNames[dep]
			deps[depName] = r.resources[depName]
		}
		res, err := build(ctx, reg, conf, deps, resLoggers[name])
		if err != nil {
			return nil, multierr.Combine(err, r.Close(ctx))
		}
		r.resources[name] = res
		r.order = append(r.order, name)
		logger.Debugw("built resource", "resource", name.String(), "model", conf.Model)
	}
	return r, nil
}

// prepare converts and validates a resource config. Configs from config.Read are already
// converted and are only validated again.
func prepare(reg *resource.Registry, conf *resource.Config) error {
	if err := conf.API.Validate(); err != nil {
		return errors.Wrapf(err, "resource %q", conf.Name)
	}
	if conf.ConvertedAttributes == nil && conf.Model != "" {
		if err := reg.ConvertAttributes(conf); err != nil {
			return err
		}
	}
	_, err := conf.Validate(conf.ResourceName().String())
	return err
}

func build(
	ctx context.Context,
	reg *resource.Registry,
	conf resource.Config,
	deps resource.Dependencies,
	logger logging.Logger,
) (resource.Resource, error) {
	name := conf.ResourceName()
	registration, ok := reg.Lookup(conf.API, conf.Model)
	if !ok {
		return nil, resource.NewModelNotRegisteredError(conf.API, conf.Model)
	}
	res, err := registration.Constructor(ctx, deps, conf, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s", name)
	}
	return res, nil
}

// ResourceByName returns a resource by name.
func (r *localRobot) ResourceByName(name resource.Name) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[name]
	if !ok {
		return nil, resource.NewNotFoundError(name)
	}
	return res, nil
}

// ResourceNames returns the names of all known resources in the order they were built.
func (r *localRobot) ResourceNames() []resource.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]resource.Name(nil), r.order...)
}

// Logger returns the logger the robot is using.
func (r *localRobot) Logger() logging.Logger {
	return r.logger
}

// Config returns the config the robot was built from.
func (r *localRobot) Config() *config.Config {
	return r.config
}

// LoggerRegistry returns the registry holding one logger per resource.
func (r *localRobot) LoggerRegistry() *logging.Registry {
	return r.loggers
}

// Close closes every resource, most recently built first. Closing twice is a no-op.
func (r *localRobot) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if closeErr := r.resources[name].Close(ctx); closeErr != nil {
			err = multierr.Combine(err, errors.Wrapf(closeErr, "failed to close %s", name))
		}
	}
	r.resources = map[resource.Name]resource.Resource{}
	r.order = nil
	return err
}
