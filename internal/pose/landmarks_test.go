package pose

import "testing"

func fullSet() []Landmark {
	lms := make([]Landmark, NumLandmarks)
	for i := range lms {
		lms[i] = Landmark{X: 0.5, Y: 0.5, Visibility: 1, Presence: 1}
	}
	return lms
}

// TestSnapshotFrom verifies the six lunge landmarks are extracted from their
// MediaPipe indices.
func TestSnapshotFrom(t *testing.T) {
	lms := fullSet()
	lms[LeftKnee].Y = 0.71
	lms[RightAnkle].X = 0.12

	snap, err := SnapshotFrom(lms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.LeftKnee.Y != 0.71 {
		t.Errorf("LeftKnee.Y = %v, want 0.71", snap.LeftKnee.Y)
	}
	if snap.RightAnkle.X != 0.12 {
		t.Errorf("RightAnkle.X = %v, want 0.12", snap.RightAnkle.X)
	}
}

// TestSnapshotFromShortSet verifies a landmark list too short to cover the
// ankle indices is rejected rather than panicking.
func TestSnapshotFromShortSet(t *testing.T) {
	if _, err := SnapshotFrom(make([]Landmark, RightAnkle)); err == nil {
		t.Error("SnapshotFrom accepted a short landmark set")
	}
	if _, err := SnapshotFrom(nil); err == nil {
		t.Error("SnapshotFrom accepted nil")
	}
}

// TestSnapshotGeometry verifies the hip average and frame-bounds helpers.
func TestSnapshotGeometry(t *testing.T) {
	lms := fullSet()
	lms[LeftHip].Y = 0.4
	lms[RightHip].Y = 0.6
	snap, err := SnapshotFrom(lms)
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.AvgHipY(); got != 0.5 {
		t.Errorf("AvgHipY = %v, want 0.5", got)
	}
	if !snap.InFrame() {
		t.Error("InFrame = false for centered landmarks")
	}

	snap.LeftAnkle.Y = 1.02
	if snap.InFrame() {
		t.Error("InFrame = true with an ankle below the frame")
	}
}

// TestMinVisibility verifies the weakest landmark dominates.
func TestMinVisibility(t *testing.T) {
	lms := fullSet()
	lms[RightKnee].Visibility = 0.31
	snap, err := SnapshotFrom(lms)
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.MinVisibility(); got != 0.31 {
		t.Errorf("MinVisibility = %v, want 0.31", got)
	}
}
