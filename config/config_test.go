package config_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"go.viam.com/fieldbot/components/base"
	"go.viam.com/fieldbot/components/base/mecanum"
	"go.viam.com/fieldbot/components/motor"
	"go.viam.com/fieldbot/components/register"
	"go.viam.com/fieldbot/config"
	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/services/locator"
	"go.viam.com/fieldbot/services/locator/apriltag"
	serviceregister "go.viam.com/fieldbot/services/register"
)

func testRegistry() *resource.Registry {
	reg := resource.NewRegistry()
	register.RegisterAll(reg)
	serviceregister.RegisterAll(reg)
	return reg
}

func TestRead(t *testing.T) {
	t.Setenv("FIELDBOT_MAX_OUTPUT", "0.5")
	logger := logging.NewTestLogger(t)
	cfg, err := config.Read(context.Background(), "data/robot.json", testRegistry(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "data/robot.json")
	test.That(t, cfg.Components, test.ShouldHaveLength, 6)
	test.That(t, cfg.Services, test.ShouldHaveLength, 1)

	drive := cfg.FindComponent("drive")
	test.That(t, drive, test.ShouldNotBeNil)
	test.That(t, drive.ResourceName(), test.ShouldResemble, base.Named("drive"))
	test.That(t, drive.ImplicitDependsOn, test.ShouldResemble, []string{"fl", "fr", "bl", "br"})
	attrs, ok := drive.ConvertedAttributes.(*mecanum.Config)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, *attrs.MaxOutput, test.ShouldEqual, 0.5)
	test.That(t, *attrs.ResponseExponent, test.ShouldEqual, 3)

	test.That(t, cfg.FindComponent("fl").ResourceName(), test.ShouldResemble, motor.Named("fl"))
	test.That(t, cfg.FindComponent("nope"), test.ShouldBeNil)

	tags := cfg.Services[0]
	test.That(t, tags.ResourceName(), test.ShouldResemble, locator.Named("tags"))
	tagAttrs, ok := tags.ConvertedAttributes.(*apriltag.Config)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, *tagAttrs.TagID, test.ShouldEqual, 5)
	test.That(t, tags.ImplicitDependsOn, test.ShouldResemble, []string{"cam"})

	test.That(t, cfg.LogConfig, test.ShouldResemble, []logging.LoggerPatternConfig{
		{Pattern: "robot.component:base/*", Level: "debug"},
	})
}

func TestReadDefaultsFromEnvironment(t *testing.T) {
	cfg, err := config.Read(context.Background(), "data/robot.json", testRegistry(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	attrs := cfg.FindComponent("drive").ConvertedAttributes.(*mecanum.Config)
	test.That(t, *attrs.MaxOutput, test.ShouldEqual, 0.75)
}

func TestFromReaderErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	reg := testRegistry()
	for _, tc := range []struct {
		name     string
		contents string
		errMsg   string
	}{
		{"bad json", `{"components": [`, "failed to decode Config from json"},
		{"unknown field", `{"robots": []}`, `unknown field "robots"`},
		{"missing type", `{"components": [{"name": "fl", "model": "fake"}]}`, `components.0: "type" is required`},
		{"missing model", `{"components": [{"name": "fl", "type": "motor"}]}`, `"model" is required`},
		{"unknown model", `{"components": [{"name": "fl", "type": "motor", "model": "servo"}]}`, "servo"},
		{
			"duplicate name",
			`{"components": [{"name": "fl", "type": "motor", "model": "fake"}],
			  "services": [{"name": "fl", "type": "locator", "model": "apriltag", "attributes": {"source": "x", "tag_id": 1}}]}`,
			`resource name "fl" is not unique`,
		},
		{
			"invalid attributes",
			`{"components": [{"name": "drive", "type": "base", "model": "mecanum", "attributes": {"front_left": "fl"}}]}`,
			`"front_right" is required`,
		},
		{
			"unknown attribute",
			`{"components": [{"name": "fl", "type": "motor", "model": "fake", "attributes": {"rpm": 10}}]}`,
			"rpm",
		},
		{"bad log pattern", `{"log": [{"pattern": "robot..x", "level": "debug"}]}`, "invalid logger pattern"},
		{"bad log level", `{"log": [{"pattern": "robot", "level": "loud"}]}`, "log.0"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.FromReader(context.Background(), "", strings.NewReader(tc.contents), reg, logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.errMsg)
		})
	}
}

func names(confs []resource.Config) []string {
	out := make([]string, 0, len(confs))
	for _, c := range confs {
		out = append(out, c.Name)
	}
	return out
}

func TestSortResources(t *testing.T) {
	confs := []resource.Config{
		{Name: "tags", ImplicitDependsOn: []string{"cam"}},
		{Name: "drive", ImplicitDependsOn: []string{"fl", "fr"}},
		{Name: "fl"},
		{Name: "cam"},
		{Name: "fr", DependsOn: []string{"fl"}},
	}
	sorted, err := config.SortResources(confs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmp.Diff([]string{"cam", "tags", "fl", "fr", "drive"}, names(sorted)), test.ShouldBeEmpty)

	_, err = config.SortResources([]resource.Config{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"c"}},
		{Name: "c", DependsOn: []string{"a"}},
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "circular dependency detected in resource list between a, b, c")

	_, err = config.SortResources([]resource.Config{{Name: "a", DependsOn: []string{"ghost"}}})
	test.That(t, err, test.ShouldBeError, `resource "a" depends on "ghost" which is not configured`)

	_, err = config.SortResources([]resource.Config{{Name: "a"}, {Name: "a"}})
	test.That(t, err, test.ShouldBeError, `resource name "a" is not unique`)
}

func TestReadShippedConfigs(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for _, path := range []string{"../etc/configs/fake_mecanum.json", "../etc/configs/replay_mecanum.json"} {
		t.Run(path, func(t *testing.T) {
			cfg, err := config.Read(context.Background(), path, testRegistry(), logger)
			test.That(t, err, test.ShouldBeNil)
			sorted, err := config.SortResources(cfg.Resources())
			test.That(t, err, test.ShouldBeNil)
			test.That(t, sorted[len(sorted)-1].Name, test.ShouldEqual, "nemo")
		})
	}
}
