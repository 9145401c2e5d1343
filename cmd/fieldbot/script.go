package main

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/fieldbot/spatialmath"
)

// scriptStep is one command of a drive script. It is written either as a planar movement,
// {"x": 0, "y": 1, "theta": 0}, or as a pair of vectors the way base velocities are usually
// given, {"linear": {"y": 1}, "angular": {"z": 0.5}}.
type scriptStep struct {
	spatialmath.Movement
	Linear  *r3.Vector `json:"linear,omitempty"`
	Angular *r3.Vector `json:"angular,omitempty"`
}

func (s scriptStep) movement() (spatialmath.Movement, error) {
	if s.Linear == nil && s.Angular == nil {
		return s.Movement, nil
	}
	if s.Movement != (spatialmath.Movement{}) {
		return spatialmath.Movement{}, errors.New("cannot mix x, y and theta with linear and angular")
	}
	var linear, angular r3.Vector
	if s.Linear != nil {
		linear = *s.Linear
	}
	if s.Angular != nil {
		angular = *s.Angular
	}
	return spatialmath.NewMovementFromVectors(linear, angular), nil
}

// readScript reads a JSON list of script steps.
func readScript(path string) ([]spatialmath.Movement, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading drive script")
	}
	var steps []scriptStep
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, errors.Wrapf(err, "decoding drive script %s", path)
	}
	script := make([]spatialmath.Movement, 0, len(steps))
	for i, step := range steps {
		m, err := step.movement()
		if err != nil {
			return nil, errors.Wrapf(err, "drive script %s step %d", path, i)
		}
		script = append(script, m)
	}
	return script, nil
}

// stepAt returns the command for a cycle, repeating the script when the loop runs longer than it.
// An empty script holds the robot still.
func stepAt(script []spatialmath.Movement, cycle int) spatialmath.Movement {
	if len(script) == 0 {
		return spatialmath.Movement{}
	}
	return script[cycle%len(script)]
}
