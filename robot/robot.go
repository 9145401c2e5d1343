// Package robot defines the robot which is the root of all robotic parts.
package robot

import (
	"context"

	"github.com/samber/lo"

	"go.viam.com/fieldbot/config"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/utils"
)

// A Robot encompasses all functionality of some robot comprised
// of parts, local and remote.
type Robot interface {
	// ResourceByName returns a resource by name.
	ResourceByName(name resource.Name) (resource.Resource, error)

	// ResourceNames returns a list of all known resource names.
	ResourceNames() []resource.Name

	// Logger returns the logger the robot is using.
	Logger() logging.Logger

	// Close attempts to cleanly close down all constituent parts of the robot.
	Close(ctx context.Context) error
}

// ResourceFromRobot returns a resource from a robot.
func ResourceFromRobot[T resource.Resource](robot Robot, name resource.Name) (T, error) {
	var zero T
	res, err := robot.ResourceByName(name)
	if err != nil {
		return zero, err
	}
	part, ok := res.(T)
	if !ok {
		return zero, utils.DependencyTypeError[T](name.String(), res)
	}
	return part, nil
}

// NamesByAPI is a helper for getting all names from the given Robot given the API.
func NamesByAPI(r Robot, api resource.API) []string {
	return lo.FilterMap(r.ResourceNames(), func(n resource.Name, _ int) (string, bool) {
		return n.Name, n.API == api
	})
}

// A LocalRobot is a Robot built in this process from a config.
type LocalRobot interface {
	Robot

	// Config returns the config the robot was built from.
	Config() *config.Config

	// LoggerRegistry returns the registry holding the robot's per resource loggers.
	LoggerRegistry() *logging.Registry
}
