// Package register registers all components
package register

import (
	basefake "go.viam.com/fieldbot/components/base/fake"
	"go.viam.com/fieldbot/components/base/mecanum"
	motorfake "go.viam.com/fieldbot/components/motor/fake"
	"go.viam.com/fieldbot/resource"
	fiducialfake "go.viam.com/fieldbot/vision/fiducial/fake"
	"go.viam.com/fieldbot/vision/fiducial/replay"
)

// RegisterAll adds every builtin component model to reg.
func RegisterAll(reg *resource.Registry) {
	motorfake.Register(reg)
	basefake.Register(reg)
	mecanum.Register(reg)
	fiducialfake.Register(reg)
	replay.Register(reg)
}
