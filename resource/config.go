package resource

import (
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/fieldbot/utils"
)

// Config describes the configuration of a resource.
type Config struct {
	Name      string   `json:"name"`
	API       API      `json:"-"`
	Type      string   `json:"type"`
	Model     Model    `json:"model"`
	DependsOn []string `json:"depends_on,omitempty"`

	Attributes          utils.AttributeMap `json:"attributes,omitempty"`
	ConvertedAttributes ConfigValidator    `json:"-"`
	ImplicitDependsOn   []string           `json:"-"`
}

// A ConfigValidator validates a configuration and also
// returns dependencies that were implicitly discovered.
type ConfigValidator interface {
	Validate(path string) ([]string, error)
}

// NoNativeConfig is used for resources that take no attributes.
type NoNativeConfig struct{}

// Validate always succeeds.
func (NoNativeConfig) Validate(path string) ([]string, error) {
	return nil, nil
}

// ResourceName returns the Name of the configured resource.
func (conf *Config) ResourceName() Name {
	return NewName(conf.API, conf.Name)
}

// Dependencies returns the deduplicated union of user-defined and implicit dependencies.
func (conf *Config) Dependencies() []string {
	result := make([]string, 0, len(conf.DependsOn)+len(conf.ImplicitDependsOn))
	seen := make(map[string]struct{})
	for _, dep := range append(append([]string{}, conf.DependsOn...), conf.ImplicitDependsOn...) {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		result = append(result, dep)
	}
	return result
}

// Validate ensures all parts of the config are valid and returns the implicit dependencies
// reported by the converted attributes.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Name == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if conf.Model == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "model")
	}
	if err := conf.API.Validate(); err != nil {
		return nil, goutils.NewConfigValidationError(path, err)
	}
	if conf.ConvertedAttributes == nil {
		return nil, nil
	}
	deps, err := conf.ConvertedAttributes.Validate(path + ".attributes")
	if err != nil {
		return nil, err
	}
	conf.ImplicitDependsOn = deps
	return deps, nil
}

// NativeConfig returns the native config from the given config via its
// converted attributes.
func NativeConfig[T any](conf Config) (T, error) {
	return utils.AssertType[T](conf.ConvertedAttributes)
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format.
// Keys are matched against `json` struct tags.
func TransformAttributeMap[T any](attributes utils.AttributeMap) (T, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT == nil {
		// nothing to transform
		return out, nil
	}
	if toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(integralFloatHook),
		TagName:          "json",
		Result:           forResult,
		ErrorUnused:      true,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return out, err
	}
	return out, nil
}

// integralFloatHook rejects floats with a fractional part headed for an integer field. JSON
// numbers arrive as float64, and mapstructure would otherwise truncate 5.7 to 5.
func integralFloatHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	for to.Kind() == reflect.Ptr {
		to = to.Elem()
	}
	if from.Kind() != reflect.Float32 && from.Kind() != reflect.Float64 {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, errors.Errorf("cannot use %v as an integer", f)
	}
	return data, nil
}
