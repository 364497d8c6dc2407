package engine

import (
	"testing"

	"github.com/claude/lungecoach/internal/pose"
)

func cueSnapshot(mutate func(*pose.Snapshot)) pose.Snapshot {
	lm := func(x, y float64) pose.Landmark {
		return pose.Landmark{X: x, Y: y, Visibility: 1, Presence: 1}
	}
	snap := pose.Snapshot{
		RightKnee: lm(0.6, 0.7), RightAnkle: lm(0.6, 0.9), // front leg
		LeftKnee: lm(0.4, 0.6), LeftAnkle: lm(0.4, 0.9),
		LeftHip: lm(0.5, 0.45), RightHip: lm(0.5, 0.45),
	}
	if mutate != nil {
		mutate(&snap)
	}
	return snap
}

// TestLiveFormNoCueOnGoodForm verifies clean form produces no feedback.
func TestLiveFormNoCueOnGoodForm(t *testing.T) {
	if cue, ok := liveFormCue(cueSnapshot(nil), DefaultTuning()); ok {
		t.Errorf("unexpected cue %q", cue)
	}
}

// TestLiveFormKneeOverAnkle verifies the misalignment cue fires when the
// front knee drifts past the ankle and both landmarks are visible.
func TestLiveFormKneeOverAnkle(t *testing.T) {
	snap := cueSnapshot(func(s *pose.Snapshot) { s.RightKnee.X = 0.75 })
	cue, ok := liveFormCue(snap, DefaultTuning())
	if !ok || cue != MsgKneeOverAnkle {
		t.Errorf("cue = %q ok=%v, want %q", cue, ok, MsgKneeOverAnkle)
	}
}

// TestLiveFormBackKnee verifies the raised-back-knee cue fires when the back
// knee is above hip level and visible.
func TestLiveFormBackKnee(t *testing.T) {
	snap := cueSnapshot(func(s *pose.Snapshot) { s.LeftKnee.Y = 0.3 })
	cue, ok := liveFormCue(snap, DefaultTuning())
	if !ok || cue != MsgLowerBackKnee {
		t.Errorf("cue = %q ok=%v, want %q", cue, ok, MsgLowerBackKnee)
	}
}

// TestLiveFormPriority verifies the misalignment check wins when both
// conditions hold: at most one cue per frame, in fixed order.
func TestLiveFormPriority(t *testing.T) {
	snap := cueSnapshot(func(s *pose.Snapshot) {
		s.RightKnee.X = 0.75
		s.LeftKnee.Y = 0.3
	})
	cue, ok := liveFormCue(snap, DefaultTuning())
	if !ok || cue != MsgKneeOverAnkle {
		t.Errorf("cue = %q, want the higher-priority %q", cue, MsgKneeOverAnkle)
	}
}

// TestLiveFormVisibilityGate verifies an occluded front ankle suppresses the
// misalignment cue and lets the back-knee check run instead.
func TestLiveFormVisibilityGate(t *testing.T) {
	snap := cueSnapshot(func(s *pose.Snapshot) {
		s.RightKnee.X = 0.75
		s.RightAnkle.Visibility = 0.4
		s.LeftKnee.Y = 0.3
	})
	cue, ok := liveFormCue(snap, DefaultTuning())
	if !ok || cue != MsgLowerBackKnee {
		t.Errorf("cue = %q ok=%v, want fall-through to %q", cue, ok, MsgLowerBackKnee)
	}

	// With the back knee also occluded, no cue at all.
	snap.LeftKnee.Visibility = 0.2
	if cue, ok := liveFormCue(snap, DefaultTuning()); ok {
		t.Errorf("cue = %q, want none when both gates fail", cue)
	}
}
