package fiducial

import (
	"go.viam.com/fieldbot/logging"
)

// LogDetections writes a human readable dump of the detections, one block per marker. Markers
// unknown to the tag library only have their pixel center logged.
func LogDetections(logger logging.Logger, detections []Detection) {
	logger.Infof("# AprilTags Detected: %d", len(detections))
	for _, d := range detections {
		if d.Metadata == nil || d.Pose == nil {
			logger.Infof("==== (ID %d) Unknown", d.ID)
			logger.Infof("Center %6.0f %6.0f   (pixels)", d.Center.X, d.Center.Y)
			continue
		}
		logger.Infof("==== (ID %d) %s", d.ID, d.Metadata.Name)
		logger.Infof("XYZ %6.1f %6.1f %6.1f  (inch)", d.Pose.X, d.Pose.Y, d.Pose.Z)
		logger.Infof("PRY %6.1f %6.1f %6.1f  (deg)", d.Pose.Pitch, d.Pose.Roll, d.Pose.Yaw)
		logger.Infof("RBE %6.1f %6.1f %6.1f  (inch, deg, deg)", d.Pose.Range, d.Pose.Bearing, d.Pose.Elevation)
	}
}
