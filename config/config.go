// Package config defines the structures to configure a robot and read them from JSON.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
)

// A Config describes the configuration of a robot.
type Config struct {
	ConfigFilePath string                        `json:"-"`
	Components     []resource.Config             `json:"components,omitempty"`
	Services       []resource.Config             `json:"services,omitempty"`
	LogConfig      []logging.LoggerPatternConfig `json:"log,omitempty"`
	Debug          bool                          `json:"debug,omitempty"`
}

// Resources returns the components followed by the services.
func (c *Config) Resources() []resource.Config {
	all := make([]resource.Config, 0, len(c.Components)+len(c.Services))
	all = append(all, c.Components...)
	return append(all, c.Services...)
}

// Ensure assigns each resource its API, converts attributes to native configs using reg, and
// validates everything. Implicit dependencies discovered during validation are recorded on each
// resource config.
func (c *Config) Ensure(reg *resource.Registry) error {
	sections := []struct {
		name    string
		confs   []resource.Config
		typeAPI func(string) resource.API
	}{
		{"components", c.Components, resource.APIComponent},
		{"services", c.Services, resource.APIService},
	}
	seen := map[string]string{}
	for _, section := range sections {
		for idx := range section.confs {
			conf := &section.confs[idx]
			path := fmt.Sprintf("%s.%d", section.name, idx)
			if conf.Type == "" {
				return errors.Errorf("%s: \"type\" is required", path)
			}
			conf.API = section.typeAPI(conf.Type)
			if other, ok := seen[conf.Name]; ok && conf.Name != "" {
				return errors.Errorf("%s: resource name %q is not unique, it is also used by %s", path, conf.Name, other)
			}
			seen[conf.Name] = path
			if conf.Model != "" {
				if err := reg.ConvertAttributes(conf); err != nil {
					return errors.Wrap(err, path)
				}
			}
			if _, err := conf.Validate(path); err != nil {
				return err
			}
		}
	}
	for idx, pattern := range c.LogConfig {
		if !logging.ValidatePattern(pattern.Pattern) {
			return errors.Errorf("log.%d: invalid logger pattern %q", idx, pattern.Pattern)
		}
		if _, err := logging.LevelFromString(pattern.Level); err != nil {
			return errors.Wrapf(err, "log.%d", idx)
		}
	}
	return nil
}

// FindComponent finds a particular component by name.
func (c *Config) FindComponent(name string) *resource.Config {
	for idx := range c.Components {
		if c.Components[idx].Name == name {
			return &c.Components[idx]
		}
	}
	return nil
}

// SortResources returns the resources ordered so that every resource comes after all of its
// dependencies. Dependencies are referred to by short name.
func SortResources(confs []resource.Config) ([]resource.Config, error) {
	nameToConfig := make(map[string]resource.Config, len(confs))
	dependencies := map[string][]string{}

	for _, conf := range confs {
		if _, ok := nameToConfig[conf.Name]; ok {
			return nil, errors.Errorf("resource name %q is not unique", conf.Name)
		}
		nameToConfig[conf.Name] = conf
		dependencies[conf.Name] = conf.Dependencies()
	}

	for name, deps := range dependencies {
		for _, dep := range deps {
			if _, ok := nameToConfig[dep]; !ok {
				return nil, errors.Errorf("resource %q depends on %q which is not configured", name, dep)
			}
		}
	}

	sorted := make([]resource.Config, 0, len(confs))
	visited := map[string]bool{}

	var dfsHelper func(string, []string) error
	dfsHelper = func(name string, path []string) error {
		for idx, seen := range path {
			if name == seen {
				return errors.Errorf("circular dependency detected in resource list between %s", strings.Join(path[idx:], ", "))
			}
		}

		path = append(path, name)
		if _, ok := visited[name]; ok {
			return nil
		}
		visited[name] = true
		for _, dep := range dependencies[name] {
			// create a deep copy of current path
			pathCopy := make([]string, len(path))
			copy(pathCopy, path)

			if err := dfsHelper(dep, pathCopy); err != nil {
				return err
			}
		}
		sorted = append(sorted, nameToConfig[name])
		return nil
	}

	for _, conf := range confs {
		if err := dfsHelper(conf.Name, []string{}); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}
