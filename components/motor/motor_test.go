package motor

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDirection(t *testing.T) {
	dir, err := DirectionFromString("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dir, test.ShouldEqual, DirectionForward)
	test.That(t, dir.Sign(), test.ShouldEqual, 1)

	dir, err = DirectionFromString("Reverse")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dir, test.ShouldEqual, DirectionReverse)
	test.That(t, dir.Sign(), test.ShouldEqual, -1)
	test.That(t, dir.String(), test.ShouldEqual, "reverse")

	_, err = DirectionFromString("sideways")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestZeroPowerBehavior(t *testing.T) {
	b, err := ZeroPowerBehaviorFromString("brake")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b, test.ShouldEqual, ZeroPowerBrake)
	test.That(t, b.String(), test.ShouldEqual, "brake")

	b, err = ZeroPowerBehaviorFromString("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, b, test.ShouldEqual, ZeroPowerFloat)

	_, err = ZeroPowerBehaviorFromString("coast")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPowerChecks(t *testing.T) {
	test.That(t, CheckPower(0.75), test.ShouldBeNil)
	test.That(t, CheckPower(-1), test.ShouldBeNil)
	test.That(t, CheckPower(1.01), test.ShouldBeError, NewInvalidPowerError(1.01))
	test.That(t, CheckPower(math.NaN()), test.ShouldNotBeNil)
}
