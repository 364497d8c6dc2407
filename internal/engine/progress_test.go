package engine

import (
	"math"
	"testing"

	"github.com/claude/lungecoach/internal/pose"
)

func snapshot(leftKneeY, rightKneeY, hipY float64) pose.Snapshot {
	lm := func(y float64) pose.Landmark {
		return pose.Landmark{X: 0.5, Y: y, Visibility: 1, Presence: 1}
	}
	return pose.Snapshot{
		LeftKnee: lm(leftKneeY), RightKnee: lm(rightKneeY),
		LeftHip: lm(hipY), RightHip: lm(hipY),
		LeftAnkle: lm(0.9), RightAnkle: lm(0.9),
	}
}

// TestRawProgressKneesTooClose verifies that a knee separation below the
// minimum reads as zero progress: legs together is never a lunge.
func TestRawProgressKneesTooClose(t *testing.T) {
	snap := snapshot(0.51, 0.5, 0.3) // separation 0.01 < 0.02
	if got := rawProgress(snap, DefaultTuning()); got != 0 {
		t.Errorf("rawProgress = %v, want 0", got)
	}
}

// TestRawProgressMidRange verifies the depth ratio against a hand-computed
// value: separation 0.1 over a hip-to-front-knee drop of 0.3.
func TestRawProgressMidRange(t *testing.T) {
	snap := snapshot(0.6, 0.5, 0.2)
	want := 0.1 / (0.3 + progressEpsilon)
	if got := rawProgress(snap, DefaultTuning()); math.Abs(got-want) > 1e-12 {
		t.Errorf("rawProgress = %v, want %v", got, want)
	}
}

// TestRawProgressClamped verifies a deep lunge saturates at 1 rather than
// exceeding the bound.
func TestRawProgressClamped(t *testing.T) {
	snap := snapshot(0.9, 0.5, 0.45) // ratio 0.4/0.05 >> 1
	if got := rawProgress(snap, DefaultTuning()); got != 1 {
		t.Errorf("rawProgress = %v, want 1", got)
	}
}

// TestRawProgressHipsLevelWithKnee verifies the epsilon guard: hips exactly
// level with the front knee must not divide by zero.
func TestRawProgressHipsLevelWithKnee(t *testing.T) {
	snap := snapshot(0.8, 0.5, 0.5) // hipToFrontKnee = 0
	got := rawProgress(snap, DefaultTuning())
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("rawProgress = %v", got)
	}
	if got != 1 {
		t.Errorf("rawProgress = %v, want clamped 1", got)
	}
}

// TestRawProgressBounds sweeps a grid of knee/hip placements and asserts the
// [0,1] bound holds everywhere.
func TestRawProgressBounds(t *testing.T) {
	for lk := 0.0; lk <= 1.0; lk += 0.17 {
		for rk := 0.0; rk <= 1.0; rk += 0.19 {
			for hip := 0.0; hip <= 1.0; hip += 0.23 {
				got := rawProgress(snapshot(lk, rk, hip), DefaultTuning())
				if got < 0 || got > 1 {
					t.Fatalf("rawProgress(%v,%v,%v) = %v, out of [0,1]", lk, rk, hip, got)
				}
			}
		}
	}
}
