package fake

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/fieldbot/components/base"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/spatialmath"
)

func TestFakeBase(t *testing.T) {
	ctx := context.Background()
	conf := resource.Config{Name: "test", API: base.API, Model: Model}
	b, err := NewBase(ctx, nil, conf, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Name(), test.ShouldResemble, base.Named("test"))

	powers, err := b.SetVelocity(ctx, spatialmath.NewMovement(0, 0.5, 0), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, powers.Slice(), test.ShouldResemble, []float64{0.5, 0.5, 0.5, 0.5})
	b.Log(ctx)

	fakeBase := b.(*Base)
	test.That(t, fakeBase.Commands(), test.ShouldResemble, []spatialmath.Movement{spatialmath.NewMovement(0, 0.5, 0)})

	fakeBase.SetVelocityErr = errors.New("stuck")
	_, err = b.SetVelocity(ctx, spatialmath.NewMovement(1, 0, 0), nil)
	test.That(t, err, test.ShouldBeError, fakeBase.SetVelocityErr)
	test.That(t, fakeBase.Commands(), test.ShouldHaveLength, 1)

	test.That(t, b.Stop(ctx, nil), test.ShouldBeNil)
	test.That(t, fakeBase.StopCount, test.ShouldEqual, 1)
	test.That(t, b.Close(ctx), test.ShouldBeNil)
	test.That(t, fakeBase.CloseCount, test.ShouldEqual, 1)
}
