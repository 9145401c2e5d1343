package resource

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/utils"
)

// A Create creates a resource (component/service) from a collection of dependencies and a config.
type Create[ResourceT Resource] func(
	ctx context.Context,
	deps Dependencies,
	conf Config,
	logger logging.Logger,
) (ResourceT, error)

// AttributeMapConverter converts a raw attribute map into a typed, validatable config.
type AttributeMapConverter func(attributes utils.AttributeMap) (ConfigValidator, error)

// Registration is how a model is constructed: a constructor plus the conversion of its
// attributes into a native config.
type Registration struct {
	Constructor           Create[Resource]
	AttributeMapConverter AttributeMapConverter
}

// Registry maps an API and model to the Registration used to build it. A Registry is an explicit
// value passed to whoever builds the robot; nothing registers itself implicitly.
type Registry struct {
	mu            sync.RWMutex
	registrations map[API]map[Model]Registration
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{registrations: map[API]map[Model]Registration{}}
}

// Register adds a typed constructor for the given API and model. ConfigT is the native config
// type the attributes are converted into; use NoNativeConfig when the model takes no attributes.
// Registering the same API and model twice panics.
func Register[ResourceT Resource, ConfigT ConfigValidator](
	reg *Registry,
	api API,
	model Model,
	constructor Create[ResourceT],
) {
	if constructor == nil {
		panic(errors.Errorf("cannot register a nil constructor for %s %q", api, model))
	}
	reg.add(api, model, Registration{
		Constructor: func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (Resource, error) {
			res, err := constructor(ctx, deps, conf, logger)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
		AttributeMapConverter: func(attributes utils.AttributeMap) (ConfigValidator, error) {
			converted, err := TransformAttributeMap[ConfigT](attributes)
			if err != nil {
				return nil, err
			}
			return converted, nil
		},
	})
}

func (reg *Registry) add(api API, model Model, registration Registration) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	models, ok := reg.registrations[api]
	if !ok {
		models = map[Model]Registration{}
		reg.registrations[api] = models
	}
	if _, exists := models[model]; exists {
		panic(errors.Errorf("trying to register two resources with same api %s and model %q", api, model))
	}
	models[model] = registration
}

// Lookup returns the Registration for the given API and model.
func (reg *Registry) Lookup(api API, model Model) (Registration, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	registration, ok := reg.registrations[api][model]
	return registration, ok
}

// ConvertAttributes fills conf.ConvertedAttributes using the registered converter for the
// configured model.
func (reg *Registry) ConvertAttributes(conf *Config) error {
	registration, ok := reg.Lookup(conf.API, conf.Model)
	if !ok {
		return NewModelNotRegisteredError(conf.API, conf.Model)
	}
	converted, err := registration.AttributeMapConverter(conf.Attributes)
	if err != nil {
		return errors.Wrapf(err, "error converting attributes of %q", conf.ResourceName())
	}
	conf.ConvertedAttributes = converted
	return nil
}
