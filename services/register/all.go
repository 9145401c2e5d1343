// Package register registers all services
package register

import (
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/services/locator/apriltag"
)

// RegisterAll adds every builtin service model to reg.
func RegisterAll(reg *resource.Registry) {
	apriltag.Register(reg)
}
