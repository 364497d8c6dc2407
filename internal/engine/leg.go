package engine

import "github.com/claude/lungecoach/internal/pose"

// Leg identifies which leg is forward in the current or most recent lunge.
type Leg int

const (
	LegNone Leg = iota
	LegLeft
	LegRight
)

func (l Leg) String() string {
	switch l {
	case LegLeft:
		return "left"
	case LegRight:
		return "right"
	default:
		return "none"
	}
}

// determineLungeLeg picks the forward/working leg: the one whose knee-to-ankle
// vertical distance is larger. A geometric proxy, not biomechanically exact.
// Assumes the standard camera orientation (subject facing the camera); equal
// distances resolve to the right leg.
func determineLungeLeg(snap pose.Snapshot) Leg {
	left := abs(snap.LeftKnee.Y - snap.LeftAnkle.Y)
	right := abs(snap.RightKnee.Y - snap.RightAnkle.Y)
	if left > right {
		return LegLeft
	}
	return LegRight
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
