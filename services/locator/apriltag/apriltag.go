// Package apriltag implements a locator that reports the robot's pose relative to one AprilTag.
package apriltag

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.viam.com/utils"

	"go.viam.com/fieldbot/logging"
	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/services/locator"
	"go.viam.com/fieldbot/spatialmath"
	"go.viam.com/fieldbot/vision/fiducial"
)

// Model is the model name of the AprilTag locator.
const Model = resource.Model("apriltag")

const (
	reasonNotDetected    = "target april tag not detected"
	reasonNotLocalizable = "target april tag detected but not localizable"
)

// Config describes how to configure the service.
type Config struct {
	Source string `json:"source"`
	// TagID is a pointer so that tag 0 can be told apart from a missing value.
	TagID    *int                  `json:"tag_id"`
	Envelope *spatialmath.Movement `json:"envelope,omitempty"`
}

// Validate ensures all parts of the config are valid and returns the source as a dependency.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.Source == "" {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "source")
	}
	if cfg.TagID == nil {
		return nil, utils.NewConfigValidationFieldRequiredError(path, "tag_id")
	}
	if *cfg.TagID < 0 {
		return nil, utils.NewConfigValidationError(path, errors.Errorf("tag_id must not be negative, not %d", *cfg.TagID))
	}
	if cfg.Envelope != nil && !cfg.Envelope.IsFinite() {
		return nil, utils.NewConfigValidationError(path, errors.New("envelope must be finite"))
	}
	return []string{cfg.Source}, nil
}

// Register adds the AprilTag locator to the given registry.
func Register(reg *resource.Registry) {
	resource.Register[locator.Locator, *Config](reg, locator.API, Model, NewLocator)
}

type tagLocator struct {
	resource.Named
	source   fiducial.Source
	tagID    int
	envelope spatialmath.Movement
	logger   logging.Logger
}

// NewLocator returns a locator that reads detections from the configured source.
func NewLocator(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (locator.Locator, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}
	if newConf.TagID == nil {
		return nil, errors.New("tag_id is required")
	}
	src, err := fiducial.FromDependencies(deps, newConf.Source)
	if err != nil {
		return nil, errors.Wrapf(err, "no fiducial source named (%s)", newConf.Source)
	}
	envelope := locator.DefaultFieldEnvelope
	if newConf.Envelope != nil {
		envelope = *newConf.Envelope
	}
	return New(conf.ResourceName(), src, *newConf.TagID, envelope, logger), nil
}

// New returns a locator for tagID reading from src.
func New(
	name resource.Name, src fiducial.Source, tagID int, envelope spatialmath.Movement, logger logging.Logger,
) locator.Locator {
	return &tagLocator{
		Named:    name.AsNamed(),
		source:   src,
		tagID:    tagID,
		envelope: envelope,
		logger:   logger,
	}
}

// Location scans one snapshot of detections, in the order the source reported them, and returns
// the pose of the first detection of the target tag that has a decoded pose. Detections of the
// target without a pose are skipped.
func (tl *tagLocator) Location(ctx context.Context) (locator.LocalizedMovement, error) {
	detections, err := tl.source.CurrentDetections(ctx)
	if err != nil {
		return locator.LocalizedMovement{}, errors.Wrapf(err, "reading detections from %s", tl.source.Name().Name)
	}

	matches := fiducial.WithID(detections, tl.tagID)
	if decoded := lo.CountBy(matches, fiducial.Detection.HasPose); decoded > 1 {
		tl.logger.Debugw("target tag detected more than once, using the first", "tag_id", tl.tagID, "count", decoded)
	}
	for _, d := range matches {
		if pose, ok := d.Movement(); ok {
			return locator.NewLocalizedMovement(pose, tl), nil
		}
		tl.logger.Debugw("skipping target tag with no decoded pose", "tag_id", tl.tagID, "center", d.Center)
	}
	if len(matches) > 0 {
		return locator.LocalizedMovement{}, locator.NewLocatorError(tl, reasonNotLocalizable, locator.ErrTargetNotLocalizable)
	}
	return locator.LocalizedMovement{}, locator.NewLocatorError(tl, reasonNotDetected, locator.ErrTargetNotDetected)
}

// Kind is always object relative: poses are measured from the tag.
func (tl *tagLocator) Kind() locator.Kind {
	return locator.ObjectRelative
}

func (tl *tagLocator) ValidityEnvelope() spatialmath.Movement {
	return tl.envelope
}

// TagID returns the tag this locator looks for.
func (tl *tagLocator) TagID() int {
	return tl.tagID
}

// Log dumps the source's current detections.
func (tl *tagLocator) Log(ctx context.Context) {
	detections, err := tl.source.CurrentDetections(ctx)
	if err != nil {
		tl.logger.Warnw("could not read detections", "error", err)
		return
	}
	fiducial.LogDetections(tl.logger, detections)
}

// Close does nothing; the source is owned by the robot.
func (tl *tagLocator) Close(ctx context.Context) error {
	return nil
}
