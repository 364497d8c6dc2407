// Package pose holds the landmark wire types shared between the pose
// estimator feeding the server and the analysis engine.
package pose

import "fmt"

// Pose landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	LeftHip      = 23
	RightHip     = 24
	LeftKnee     = 25
	RightKnee    = 26
	LeftAnkle    = 27
	RightAnkle   = 28
	NumLandmarks = 33
)

// Landmark is a single estimated body keypoint. X and Y are normalized to
// [0,1] relative to the camera frame; Visibility and Presence are confidence
// scores in [0,1].
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
	Presence   float64 `json:"presence"`
}

// Snapshot is the six landmarks relevant to lunge analysis, extracted from
// one frame's full landmark set. Constructed fresh per frame and never
// retained beyond it.
type Snapshot struct {
	LeftKnee   Landmark
	RightKnee  Landmark
	LeftHip    Landmark
	RightHip   Landmark
	LeftAnkle  Landmark
	RightAnkle Landmark
}

// SnapshotFrom extracts a Snapshot from a full landmark set. The set must be
// long enough to cover the hip/knee/ankle indices; shorter input is malformed.
func SnapshotFrom(landmarks []Landmark) (Snapshot, error) {
	if len(landmarks) <= RightAnkle {
		return Snapshot{}, fmt.Errorf("landmark set has %d points, need at least %d", len(landmarks), RightAnkle+1)
	}
	return Snapshot{
		LeftKnee:   landmarks[LeftKnee],
		RightKnee:  landmarks[RightKnee],
		LeftHip:    landmarks[LeftHip],
		RightHip:   landmarks[RightHip],
		LeftAnkle:  landmarks[LeftAnkle],
		RightAnkle: landmarks[RightAnkle],
	}, nil
}

// AvgHipY returns the mean vertical position of the two hips.
func (s Snapshot) AvgHipY() float64 {
	return (s.LeftHip.Y + s.RightHip.Y) / 2
}

// all returns the six landmarks in a fixed order for iteration.
func (s Snapshot) all() [6]Landmark {
	return [6]Landmark{s.LeftKnee, s.RightKnee, s.LeftHip, s.RightHip, s.LeftAnkle, s.RightAnkle}
}

// MinVisibility returns the smallest visibility score among the six landmarks.
func (s Snapshot) MinVisibility() float64 {
	min := 1.0
	for _, lm := range s.all() {
		if lm.Visibility < min {
			min = lm.Visibility
		}
	}
	return min
}

// InFrame reports whether all six landmarks have x and y inside [0,1].
func (s Snapshot) InFrame() bool {
	for _, lm := range s.all() {
		if lm.X < 0 || lm.X > 1 || lm.Y < 0 || lm.Y > 1 {
			return false
		}
	}
	return true
}
