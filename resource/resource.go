// Package resource contains the naming, dependency and configuration types shared by every
// component and service of a fieldbot robot.
package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/fieldbot/utils"
)

// Resource types.
const (
	TypeComponent = "component"
	TypeService   = "service"
)

// API identifies a kind of resource, e.g. "component:motor" or "service:locator".
type API struct {
	Type        string
	SubtypeName string
}

// APIComponent returns the component API with the given subtype.
func APIComponent(subtype string) API {
	return API{Type: TypeComponent, SubtypeName: subtype}
}

// APIService returns the service API with the given subtype.
func APIService(subtype string) API {
	return API{Type: TypeService, SubtypeName: subtype}
}

// Validate ensures both parts of the API are set.
func (a API) Validate() error {
	if a.Type != TypeComponent && a.Type != TypeService {
		return errors.Errorf("api type must be %q or %q, not %q", TypeComponent, TypeService, a.Type)
	}
	if a.SubtypeName == "" {
		return errors.New("api subtype name missing")
	}
	return nil
}

func (a API) String() string {
	return fmt.Sprintf("%s:%s", a.Type, a.SubtypeName)
}

// Model names an implementation of an API, e.g. "mecanum" for a base.
type Model string

// Name represents a known component or service of a robot.
type Name struct {
	API  API
	Name string
}

// NewName creates a new Name based on the API and the resource's short name.
func NewName(api API, name string) Name {
	return Name{API: api, Name: name}
}

// NewFromString parses a name of the form "component:motor/fl".
func NewFromString(s string) (Name, error) {
	apiStr, name, ok := strings.Cut(s, "/")
	if !ok || name == "" {
		return Name{}, errors.Errorf("resource name %q must be of the form type:subtype/name", s)
	}
	typ, subtype, ok := strings.Cut(apiStr, ":")
	if !ok {
		return Name{}, errors.Errorf("resource name %q must be of the form type:subtype/name", s)
	}
	n := NewName(API{Type: typ, SubtypeName: subtype}, name)
	if err := n.API.Validate(); err != nil {
		return Name{}, err
	}
	return n, nil
}

// AsNamed returns a Named that always reports this name.
func (n Name) AsNamed() Named {
	return selfNamed{n}
}

func (n Name) String() string {
	return fmt.Sprintf("%s/%s", n.API, n.Name)
}

// Named is anything that knows its own resource name.
type Named interface {
	Name() Name
}

type selfNamed struct {
	name Name
}

func (n selfNamed) Name() Name {
	return n.name
}

// A Resource is the basic building block of a robot. It is built once from its configuration and
// dependencies and must be explicitly closed by whoever built it.
type Resource interface {
	Named
	Close(ctx context.Context) error
}

// Dependencies are a set of resources that a resource requires for construction.
type Dependencies map[Name]Resource

// Lookup searches for a given dependency by name.
func (d Dependencies) Lookup(name Name) (Resource, error) {
	r, ok := d[name]
	if !ok {
		return nil, NewNotFoundError(name)
	}
	return r, nil
}

// FromDependencies returns a named typed resource from the given dependencies.
func FromDependencies[T Resource](deps Dependencies, name Name) (T, error) {
	var zero T
	res, err := deps.Lookup(name)
	if err != nil {
		return zero, err
	}
	typedRes, ok := res.(T)
	if !ok {
		return zero, utils.DependencyTypeError[T](name.String(), res)
	}
	return typedRes, nil
}
