// Package inject provides test doubles whose behavior is set per test through function fields.
package inject

import (
	"context"
	"sync"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
)

// Robot is an injected robot.
type Robot struct {
	robot.Robot
	Mu                 sync.RWMutex
	ResourceByNameFunc func(name resource.Name) (resource.Resource, error)
	ResourceNamesFunc  func() []resource.Name
	LoggerFunc         func() logging.Logger
	CloseFunc          func(ctx context.Context) error
}

// MockResourcesFromMap mocks ResourceNames and ResourceByName based on a resource map.
func (r *Robot) MockResourcesFromMap(rs map[resource.Name]resource.Resource) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.ResourceNamesFunc = func() []resource.Name {
		result := make([]resource.Name, 0, len(rs))
		for n := range rs {
			result = append(result, n)
		}
		return result
	}
	r.ResourceByNameFunc = func(name resource.Name) (resource.Resource, error) {
		res, ok := rs[name]
		if !ok {
			return nil, resource.NewNotFoundError(name)
		}
		return res, nil
	}
}

// ResourceByName calls the injected ResourceByName or the real version.
func (r *Robot) ResourceByName(name resource.Name) (resource.Resource, error) {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.ResourceByNameFunc == nil {
		return r.Robot.ResourceByName(name)
	}
	return r.ResourceByNameFunc(name)
}

// ResourceNames calls the injected ResourceNames or the real version.
func (r *Robot) ResourceNames() []resource.Name {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.ResourceNamesFunc == nil {
		return r.Robot.ResourceNames()
	}
	return r.ResourceNamesFunc()
}

// Logger calls the injected Logger or the real version.
func (r *Robot) Logger() logging.Logger {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.LoggerFunc == nil {
		return r.Robot.Logger()
	}
	return r.LoggerFunc()
}

// Close calls the injected Close or the real version.
func (r *Robot) Close(ctx context.Context) error {
	r.Mu.RLock()
	defer r.Mu.RUnlock()
	if r.CloseFunc == nil {
		if r.Robot == nil {
			return nil
		}
		return r.Robot.Close(ctx)
	}
	return r.CloseFunc(ctx)
}
