package engine

import (
	"math"

	"github.com/claude/lungecoach/internal/pose"
)

// progressEpsilon guards the depth ratio against division by zero.
const progressEpsilon = 0.0001

// rawProgress computes the unsmoothed lunge-depth scalar in [0,1] from a
// validated snapshot. The vertical knee separation relative to hip height is
// a heuristic proxy for depth: it grows as the front/back knees spread apart.
func rawProgress(snap pose.Snapshot, t Tuning) float64 {
	kneeSeparation := math.Abs(snap.LeftKnee.Y - snap.RightKnee.Y)
	if kneeSeparation < t.MinKneeSeparation {
		return 0
	}

	frontKneeY := math.Min(snap.LeftKnee.Y, snap.RightKnee.Y)
	hipToFrontKnee := math.Abs(snap.AvgHipY() - frontKneeY)

	return clamp(kneeSeparation/(hipToFrontKnee+progressEpsilon), 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
