// Package fiducial defines fiducial marker detections and the sources that produce them.
package fiducial

import (
	"context"

	"github.com/golang/geo/r2"
	"github.com/samber/lo"

	"go.viam.com/fieldbot/resource"
	"go.viam.com/fieldbot/robot"
	"go.viam.com/fieldbot/spatialmath"
)

// SubtypeName is a constant that identifies the component resource API string "fiducial_source".
const SubtypeName = "fiducial_source"

// API is a variable that identifies the component resource API.
var API = resource.APIComponent(SubtypeName)

// A Source is a vision back end that reports the fiducial markers it currently sees.
type Source interface {
	resource.Resource

	// CurrentDetections returns the markers seen in the latest processed frame, in the order the
	// back end produced them. It must not block waiting for a new frame.
	CurrentDetections(ctx context.Context) ([]Detection, error)
}

// TagMetadata is what the tag library knows about a marker.
type TagMetadata struct {
	Name string `json:"name"`
	// Size is the length of the marker's side in inches.
	Size float64 `json:"size"`
}

// TagPose is the pose of a marker relative to the camera. X is right, Y is forward and Z is up,
// in inches. Angles are in degrees.
type TagPose struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Yaw       float64 `json:"yaw"`
	Pitch     float64 `json:"pitch"`
	Roll      float64 `json:"roll"`
	Range     float64 `json:"range"`
	Bearing   float64 `json:"bearing"`
	Elevation float64 `json:"elevation"`
}

// Detection is a single marker seen in a frame. Pose is nil when the back end could not decode
// a pose for it, in which case only Center (in pixels) is meaningful.
type Detection struct {
	ID       int          `json:"id"`
	Metadata *TagMetadata `json:"metadata,omitempty"`
	Pose     *TagPose     `json:"pose,omitempty"`
	Center   r2.Point     `json:"center"`
}

// HasPose reports whether a pose was decoded for the detection.
func (d Detection) HasPose() bool {
	return d.Pose != nil
}

// Movement returns the planar part of the decoded pose: lateral, longitudinal and yaw.
// It returns false when no pose was decoded.
func (d Detection) Movement() (spatialmath.Movement, bool) {
	if d.Pose == nil {
		return spatialmath.Movement{}, false
	}
	return spatialmath.NewMovement(d.Pose.X, d.Pose.Y, d.Pose.Yaw), true
}

// Clone returns a copy that shares no memory with d.
func (d Detection) Clone() Detection {
	out := d
	if d.Metadata != nil {
		metadata := *d.Metadata
		out.Metadata = &metadata
	}
	if d.Pose != nil {
		pose := *d.Pose
		out.Pose = &pose
	}
	return out
}

// CloneAll deep copies a list of detections.
func CloneAll(detections []Detection) []Detection {
	return lo.Map(detections, func(d Detection, _ int) Detection {
		return d.Clone()
	})
}

// WithID returns the detections with the given ID, keeping their order.
func WithID(detections []Detection, id int) []Detection {
	return lo.Filter(detections, func(d Detection, _ int) bool {
		return d.ID == id
	})
}

// Named is a helper for getting the named Source's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named fiducial source from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Source, error) {
	return resource.FromDependencies[Source](deps, Named(name))
}

// FromRobot is a helper for getting the named fiducial source from the given Robot.
func FromRobot(r robot.Robot, name string) (Source, error) {
	return robot.ResourceFromRobot[Source](r, Named(name))
}

// NamesFromRobot is a helper for getting all fiducial source names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}
