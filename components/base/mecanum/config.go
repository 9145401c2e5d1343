package mecanum

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/fieldbot/components/motor"
)

// Known layouts.
const (
	LayoutMecanum = "mecanum"
	LayoutCustom  = "custom"
)

// Config is how you configure a mecanum base.
type Config struct {
	FrontLeft  string `json:"front_left"`
	FrontRight string `json:"front_right"`
	BackLeft   string `json:"back_left"`
	BackRight  string `json:"back_right"`

	Layout       string      `json:"layout,omitempty"`
	MixingMatrix [][]float64 `json:"mixing_matrix,omitempty"`

	ResponseExponent *int     `json:"response_exponent,omitempty"`
	MaxOutput        *float64 `json:"max_output,omitempty"`

	LeftDirection     string `json:"left_direction,omitempty"`
	RightDirection    string `json:"right_direction,omitempty"`
	ZeroPowerBehavior string `json:"zero_power_behavior,omitempty"`
}

// Validate ensures all parts of the config are valid and returns the four motors as
// dependencies.
func (cfg *Config) Validate(path string) ([]string, error) {
	wheels := []struct {
		field string
		name  string
	}{
		{"front_left", cfg.FrontLeft},
		{"front_right", cfg.FrontRight},
		{"back_left", cfg.BackLeft},
		{"back_right", cfg.BackRight},
	}
	deps := make([]string, 0, len(wheels))
	usedBy := map[string]string{}
	for _, w := range wheels {
		if w.name == "" {
			return nil, utils.NewConfigValidationFieldRequiredError(path, w.field)
		}
		if other, ok := usedBy[w.name]; ok {
			return nil, utils.NewConfigValidationError(path,
				errors.Errorf("motor %q cannot drive both %s and %s", w.name, other, w.field))
		}
		usedBy[w.name] = w.field
		deps = append(deps, w.name)
	}

	switch cfg.Layout {
	case "", LayoutMecanum:
		if len(cfg.MixingMatrix) != 0 {
			return nil, utils.NewConfigValidationError(path,
				errors.New("mixing_matrix can only be set when layout is custom"))
		}
	case LayoutCustom:
		if _, err := cfg.mixing(); err != nil {
			return nil, utils.NewConfigValidationError(path, err)
		}
	default:
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("unknown layout %q, expected %s or %s", cfg.Layout, LayoutMecanum, LayoutCustom))
	}

	if exp := cfg.responseExponent(); exp <= 0 || exp%2 == 0 {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("response_exponent must be a positive odd integer, not %d", exp))
	}
	if out := cfg.maxOutput(); out <= 0 || out > 1 {
		return nil, utils.NewConfigValidationError(path,
			errors.Errorf("max_output must be greater than 0 and at most 1, not %v", out))
	}
	if _, err := motor.DirectionFromString(cfg.LeftDirection); err != nil {
		return nil, utils.NewConfigValidationError(path, err)
	}
	if _, err := motor.DirectionFromString(cfg.RightDirection); err != nil {
		return nil, utils.NewConfigValidationError(path, err)
	}
	if _, err := motor.ZeroPowerBehaviorFromString(cfg.ZeroPowerBehavior); err != nil {
		return nil, utils.NewConfigValidationError(path, err)
	}
	return deps, nil
}

func (cfg *Config) responseExponent() int {
	if cfg.ResponseExponent == nil {
		return DefaultResponseExponent
	}
	return *cfg.ResponseExponent
}

func (cfg *Config) maxOutput() float64 {
	if cfg.MaxOutput == nil {
		return DefaultMaxOutput
	}
	return *cfg.MaxOutput
}

// directions returns the left and right directions. Left wheels face the other way on the
// chassis so they are reversed unless configured otherwise.
func (cfg *Config) directions() (motor.Direction, motor.Direction, error) {
	left := motor.DirectionReverse
	if cfg.LeftDirection != "" {
		var err error
		if left, err = motor.DirectionFromString(cfg.LeftDirection); err != nil {
			return left, motor.DirectionForward, err
		}
	}
	right, err := motor.DirectionFromString(cfg.RightDirection)
	return left, right, err
}

// mixing returns the custom mixing matrix. Rows are front left, front right, back left,
// back right.
func (cfg *Config) mixing() (*mat.Dense, error) {
	if len(cfg.MixingMatrix) != numWheels {
		return nil, errors.Errorf("mixing_matrix must have %d rows, not %d", numWheels, len(cfg.MixingMatrix))
	}
	data := make([]float64, 0, numWheels*numAxes)
	for i, row := range cfg.MixingMatrix {
		if len(row) != numAxes {
			return nil, errors.Errorf("mixing_matrix row %d must have %d columns, not %d", i, numAxes, len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(numWheels, numAxes, data), nil
}

func (cfg *Config) kinematics() (*Kinematics, error) {
	if cfg.Layout != LayoutCustom {
		return NewMecanumKinematics(cfg.responseExponent(), cfg.maxOutput())
	}
	mixing, err := cfg.mixing()
	if err != nil {
		return nil, err
	}
	return NewKinematics(mixing, cfg.responseExponent(), cfg.maxOutput())
}
