package engine

import (
	"math"

	"github.com/claude/lungecoach/internal/pose"
)

// backKneePenalty is the flat deduction when the back knee rides above hip
// level at rep completion.
const backKneePenalty = 20

// frontPair identifies the front leg's knee/ankle and the back knee. The knee
// with the larger y (lower on screen, assuming the standard camera
// orientation) is treated as the front knee.
func frontPair(snap pose.Snapshot) (frontKnee, frontAnkle, backKnee pose.Landmark) {
	if snap.LeftKnee.Y > snap.RightKnee.Y {
		return snap.LeftKnee, snap.LeftAnkle, snap.RightKnee
	}
	return snap.RightKnee, snap.RightAnkle, snap.LeftKnee
}

// assessForm scores the exit-time snapshot of a completed rep in [0,100].
// Starts at 100; front knee drifting past the ankle costs proportionally,
// a raised back knee costs a flat penalty. Clamped after all deductions.
func assessForm(snap pose.Snapshot, t Tuning) int {
	score := 100.0

	frontKnee, frontAnkle, backKnee := frontPair(snap)

	alignmentError := math.Abs(frontKnee.X - frontAnkle.X)
	if alignmentError > t.AlignmentThreshold {
		score -= math.Round(alignmentError * 100)
	}

	if backKnee.Y < snap.AvgHipY() {
		score -= backKneePenalty
	}

	return int(clamp(score, 0, 100))
}
