package engine

import (
	"testing"

	"github.com/claude/lungecoach/internal/pose"
)

func visibleSnapshot() pose.Snapshot {
	lm := pose.Landmark{X: 0.5, Y: 0.5, Visibility: 1, Presence: 1}
	return pose.Snapshot{
		LeftKnee: lm, RightKnee: lm, LeftHip: lm, RightHip: lm,
		LeftAnkle: lm, RightAnkle: lm,
	}
}

// TestValidateOK verifies a fully visible in-frame snapshot passes.
func TestValidateOK(t *testing.T) {
	if got := validate(visibleSnapshot(), DefaultTuning()); got != ValidationOK {
		t.Errorf("validate = %v, want OK", got)
	}
}

// TestValidateLowVisibility verifies any single landmark under the threshold
// rejects the frame, and that a zero-valued (missing) visibility does too.
func TestValidateLowVisibility(t *testing.T) {
	snap := visibleSnapshot()
	snap.RightHip.Visibility = 0.49
	if got := validate(snap, DefaultTuning()); got != ValidationLowVisibility {
		t.Errorf("validate = %v, want LowVisibility", got)
	}

	snap = visibleSnapshot()
	snap.LeftAnkle = pose.Landmark{X: 0.5, Y: 0.5} // missing scores default to 0
	if got := validate(snap, DefaultTuning()); got != ValidationLowVisibility {
		t.Errorf("validate = %v, want LowVisibility for zero visibility", got)
	}
}

// TestValidateOutOfFrame verifies coordinates outside [0,1] reject the frame.
func TestValidateOutOfFrame(t *testing.T) {
	cases := []func(*pose.Snapshot){
		func(s *pose.Snapshot) { s.LeftKnee.X = -0.01 },
		func(s *pose.Snapshot) { s.RightKnee.X = 1.01 },
		func(s *pose.Snapshot) { s.LeftHip.Y = -0.2 },
		func(s *pose.Snapshot) { s.RightAnkle.Y = 1.5 },
	}
	for i, mutate := range cases {
		snap := visibleSnapshot()
		mutate(&snap)
		if got := validate(snap, DefaultTuning()); got != ValidationOutOfFrame {
			t.Errorf("case %d: validate = %v, want OutOfFrame", i, got)
		}
	}
}

// TestValidateVisibilityWinsOverBounds verifies the visibility check is
// evaluated first when both conditions hold.
func TestValidateVisibilityWinsOverBounds(t *testing.T) {
	snap := visibleSnapshot()
	snap.LeftKnee = pose.Landmark{X: 1.5, Y: 0.5, Visibility: 0.1}
	if got := validate(snap, DefaultTuning()); got != ValidationLowVisibility {
		t.Errorf("validate = %v, want LowVisibility to take priority", got)
	}
}

// TestValidateBoundaryVisibility verifies exactly-at-threshold visibility is
// accepted (the check is strictly less-than).
func TestValidateBoundaryVisibility(t *testing.T) {
	snap := visibleSnapshot()
	snap.LeftKnee.Visibility = 0.5
	if got := validate(snap, DefaultTuning()); got != ValidationOK {
		t.Errorf("validate = %v, want OK at the threshold", got)
	}
}
