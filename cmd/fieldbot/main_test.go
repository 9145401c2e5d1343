package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/spatialmath"
)

const testConfig = `{
	"components": [
		{"name": "fl", "type": "motor", "model": "fake"},
		{"name": "fr", "type": "motor", "model": "fake"},
		{"name": "bl", "type": "motor", "model": "fake"},
		{"name": "br", "type": "motor", "model": "fake"},
		{
			"name": "drive",
			"type": "base",
			"model": "mecanum",
			"attributes": {"front_left": "fl", "front_right": "fr", "back_left": "bl", "back_right": "br"}
		},
		{
			"name": "cam",
			"type": "fiducial_source",
			"model": "fake",
			"attributes": {"detections": [{"id": 5, "pose": {"x": 5, "y": 10, "yaw": 15}}, {"id": 9}]}
		}
	],
	"services": [
		{"name": "tags", "type": "locator", "model": "apriltag", "attributes": {"source": "cam", "tag_id": 5}},
		{"name": "hidden", "type": "locator", "model": "apriltag", "attributes": {"source": "cam", "tag_id": 9}}
	]
}`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestRun(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	opts := options{
		ConfigPath: writeFile(t, "robot.json", testConfig),
		ScriptPath: writeFile(t, "script.json", `[{"x": 0, "y": 1, "theta": 0}, {"x": 1, "y": 0, "theta": 0}]`),
		Frequency:  200,
	}
	test.That(t, run(context.Background(), opts, logger), test.ShouldBeNil)

	located := logs.FilterMessage("location").All()
	test.That(t, located, test.ShouldHaveLength, 2)
	test.That(t, located[0].ContextMap()["locator"], test.ShouldEqual, "tags")

	missing := logs.FilterMessage("no location").All()
	test.That(t, missing, test.ShouldHaveLength, 2)
	test.That(t, missing[0].ContextMap()["locator"], test.ShouldEqual, "hidden")

	test.That(t, logs.FilterMessage("motor power").Len(), test.ShouldEqual, 2)
}

func TestRunErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx := context.Background()

	err := run(ctx, options{ConfigPath: filepath.Join(t.TempDir(), "missing.json"), Frequency: 10}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	configPath := writeFile(t, "robot.json", testConfig)
	err = run(ctx, options{ConfigPath: configPath, ScriptPath: writeFile(t, "script.json", `{`), Frequency: 10}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "decoding drive script")

	err = run(ctx, options{ConfigPath: configPath, BaseName: "other", Cycles: 1, Frequency: 10}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	err = run(ctx, options{ConfigPath: configPath, Cycles: 1, Frequency: 500}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "loop frequency")
}

func TestStepAt(t *testing.T) {
	test.That(t, stepAt(nil, 3), test.ShouldResemble, spatialmath.Movement{})
	script := []spatialmath.Movement{spatialmath.NewMovement(0, 1, 0), spatialmath.NewMovement(1, 0, 0)}
	test.That(t, stepAt(script, 0), test.ShouldResemble, script[0])
	test.That(t, stepAt(script, 3), test.ShouldResemble, script[1])
}

func TestReadScript(t *testing.T) {
	script, err := readScript(writeFile(t, "script.json", `[
		{"x": 0.5, "y": -1, "theta": 0.25},
		{"linear": {"x": 0.1, "y": 1, "z": 9}, "angular": {"z": -0.5}},
		{"angular": {"z": 1}},
		{}
	]`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, script, test.ShouldResemble, []spatialmath.Movement{
		spatialmath.NewMovement(0.5, -1, 0.25),
		spatialmath.NewMovement(0.1, 1, -0.5),
		spatialmath.NewMovement(0, 0, 1),
		{},
	})

	_, err = readScript(writeFile(t, "mixed.json", `[{"y": 1}, {"x": 1, "linear": {"y": 1}}]`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "step 1: cannot mix x, y and theta with linear and angular")

	shipped, err := readScript("../../etc/scripts/strafe_square.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, shipped, test.ShouldHaveLength, 10)
	test.That(t, shipped[8], test.ShouldResemble, spatialmath.NewMovement(0, 0, 0.25))

	_, err = readScript(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}
