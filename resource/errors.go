package resource

import (
	"github.com/pkg/errors"
)

// NewNotFoundError is used when a resource is not found.
func NewNotFoundError(name Name) error {
	return errors.Errorf("resource %q not found", name)
}

// NewModelNotRegisteredError is used when a configured model has no constructor.
func NewModelNotRegisteredError(api API, model Model) error {
	return errors.Errorf("model %q of api %q is not registered", model, api)
}

// NewDuplicateNameError is used when two configured resources share a name.
func NewDuplicateNameError(name Name) error {
	return errors.Errorf("resource %q is configured more than once", name)
}
