package engine

import (
	"math"

	"github.com/claude/lungecoach/internal/pose"
)

// liveFormCue evaluates the in-lunge corrective checks in fixed priority
// order and returns at most one cue per frame. Each check only fires when the
// landmarks it reads are confidently visible, so occluded joints never
// produce spurious coaching.
func liveFormCue(snap pose.Snapshot, t Tuning) (string, bool) {
	frontKnee, frontAnkle, backKnee := frontPair(snap)

	if math.Abs(frontKnee.X-frontAnkle.X) > t.AlignmentThreshold &&
		frontKnee.Visibility > t.VisibilityThreshold &&
		frontAnkle.Visibility > t.VisibilityThreshold {
		return MsgKneeOverAnkle, true
	}

	if backKnee.Y < snap.AvgHipY() && backKnee.Visibility > t.VisibilityThreshold {
		return MsgLowerBackKnee, true
	}

	return "", false
}
