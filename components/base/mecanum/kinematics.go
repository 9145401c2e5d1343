package mecanum

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/fieldbot/components/base"
	"go.viam.com/fieldbot/spatialmath"
	"go.viam.com/fieldbot/utils"
)

const (
	// DefaultResponseExponent is the exponent of the response curve applied after normalization.
	DefaultResponseExponent = 5
	// DefaultMaxOutput is the attenuation applied after the response curve.
	DefaultMaxOutput = 0.75

	numWheels = 4
	numAxes   = 3
)

// mecanumMixing has one row per wheel (front left, front right, back left, back right) and one
// column per axis (lateral, longitudinal, angular). Rollers are mounted at 45 degrees so a
// lateral command spins diagonal pairs in opposite directions.
var mecanumMixing = []float64{
	1, 1, 1,
	-1, 1, -1,
	-1, 1, 1,
	1, 1, -1,
}

// Kinematics maps planar velocity commands to wheel powers. It holds no state between calls.
type Kinematics struct {
	mixing      *mat.Dense
	exponent    int
	attenuation float64
}

// NewMecanumKinematics returns the kinematics of a standard mecanum layout.
func NewMecanumKinematics(exponent int, attenuation float64) (*Kinematics, error) {
	return NewKinematics(mat.NewDense(numWheels, numAxes, append([]float64(nil), mecanumMixing...)), exponent, attenuation)
}

// NewKinematics returns kinematics for an arbitrary 4x3 mixing matrix whose rows are front left,
// front right, back left, back right and whose columns are lateral, longitudinal, angular.
func NewKinematics(mixing *mat.Dense, exponent int, attenuation float64) (*Kinematics, error) {
	if rows, cols := mixing.Dims(); rows != numWheels || cols != numAxes {
		return nil, errors.Errorf("mixing matrix must be %dx%d, not %dx%d", numWheels, numAxes, rows, cols)
	}
	if exponent <= 0 || exponent%2 == 0 {
		return nil, errors.Errorf("response exponent must be a positive odd integer, not %d", exponent)
	}
	if attenuation <= 0 || attenuation > 1 {
		return nil, errors.Errorf("max output must be in (0, 1], not %v", attenuation)
	}
	return &Kinematics{mixing: mat.DenseCopyOf(mixing), exponent: exponent, attenuation: attenuation}, nil
}

// Mix returns the raw per-wheel sums of the command. Values may exceed 1 in magnitude. When the
// sums overflow, the command is first divided by its largest component, which keeps the ratios
// between wheels and leaves the largest sum above 1.
func (k *Kinematics) Mix(command spatialmath.Movement) base.WheelPowers {
	out := k.mix(command)
	if math.IsInf(mat.Norm(out, math.Inf(1)), 0) {
		scale := math.Max(math.Abs(command.X), math.Max(math.Abs(command.Y), math.Abs(command.Theta)))
		out = k.mix(spatialmath.NewMovement(command.X/scale, command.Y/scale, command.Theta/scale))
	}
	return wheelPowersFromVec(out)
}

func (k *Kinematics) mix(command spatialmath.Movement) *mat.VecDense {
	var out mat.VecDense
	out.MulVec(k.mixing, mat.NewVecDense(numAxes, []float64{command.X, command.Y, command.Theta}))
	return &out
}

// Normalize scales all four values down by the largest magnitude when it exceeds 1, keeping
// the ratios between wheels. Values that already fit are returned unchanged.
func (k *Kinematics) Normalize(powers base.WheelPowers) base.WheelPowers {
	v := mat.NewVecDense(numWheels, powers.Slice())
	maxAbs := mat.Norm(v, math.Inf(1))
	if maxAbs <= 1 {
		return powers
	}
	for i := 0; i < v.Len(); i++ {
		v.SetVec(i, v.AtVec(i)/maxAbs)
	}
	return wheelPowersFromVec(v)
}

// Shape applies the response curve sign(v) * |v|^exponent and then the attenuation. The
// exponent is odd so the curve keeps the sign of every value.
func (k *Kinematics) Shape(powers base.WheelPowers) base.WheelPowers {
	return base.WheelPowers{
		FrontLeft:  k.shape(powers.FrontLeft),
		FrontRight: k.shape(powers.FrontRight),
		BackLeft:   k.shape(powers.BackLeft),
		BackRight:  k.shape(powers.BackRight),
	}
}

func (k *Kinematics) shape(v float64) float64 {
	return utils.SignedPow(v, k.exponent) * k.attenuation
}

// Powers runs the full pipeline: mix, normalize, shape. Every returned value is within
// [-max output, max output].
func (k *Kinematics) Powers(command spatialmath.Movement) (base.WheelPowers, error) {
	if !command.IsFinite() {
		return base.WheelPowers{}, base.NewNonFiniteVelocityError(command)
	}
	return k.Shape(k.Normalize(k.Mix(command))), nil
}

// ResponseExponent returns the exponent of the response curve.
func (k *Kinematics) ResponseExponent() int {
	return k.exponent
}

// MaxOutput returns the attenuation applied after the response curve.
func (k *Kinematics) MaxOutput() float64 {
	return k.attenuation
}

func wheelPowersFromVec(v *mat.VecDense) base.WheelPowers {
	return base.WheelPowers{
		FrontLeft:  v.AtVec(0),
		FrontRight: v.AtVec(1),
		BackLeft:   v.AtVec(2),
		BackRight:  v.AtVec(3),
	}
}
