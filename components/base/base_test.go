package base_test

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/fieldbot/components/base"
	"go.viam.com/fieldbot/components/base/fake"
	"go.viam.com/fieldbot/components/motor"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/spatialmath"
	"go.viam.com/fieldbot/testutils"
	"go.viam.com/fieldbot/testutils/inject"
)

func TestFromRobot(t *testing.T) {
	r := &inject.Robot{}
	rs := map[resource.Name]resource.Resource{
		base.Named("base1"): fake.NewTestBase("base1"),
		base.Named("base2"): fake.NewTestBase("base2"),
		motor.Named("m"):    inject.NewMotor("m"),
	}
	r.MockResourcesFromMap(rs)

	testutils.VerifySameElements(t, base.NamesFromRobot(r), []string{"base1", "base2"})

	_, err := base.FromRobot(r, "base1")
	test.That(t, err, test.ShouldBeNil)

	_, err = base.FromRobot(r, "base0")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = base.FromRobot(r, "m")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromDependencies(t *testing.T) {
	deps := resource.Dependencies{
		base.Named("base1"): fake.NewTestBase("base1"),
		base.Named("m"):     inject.NewMotor("m"),
	}
	b, err := base.FromDependencies(deps, "base1")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b.Name(), test.ShouldResemble, base.Named("base1"))

	_, err = base.FromDependencies(deps, "m")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "should be an implementation of base.Base")
}

func TestWheelPowers(t *testing.T) {
	p := base.WheelPowers{FrontLeft: 0.1, FrontRight: -0.7, BackLeft: 0.3, BackRight: 0}
	test.That(t, p.Slice(), test.ShouldResemble, []float64{0.1, -0.7, 0.3, 0})
	test.That(t, p.MaxAbs(), test.ShouldEqual, 0.7)
	test.That(t, base.WheelPowers{}.MaxAbs(), test.ShouldEqual, 0)
	test.That(t, p.String(), test.ShouldEqual, "fl=0.100000 fr=-0.700000 bl=0.300000 br=0.000000")
}

func TestNonFiniteVelocityError(t *testing.T) {
	err := base.NewNonFiniteVelocityError(spatialmath.NewMovement(1, 0, 0))
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be finite")
}
