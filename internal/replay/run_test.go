package replay

import (
	"log/slog"
	"testing"

	"github.com/claude/lungecoach/internal/engine"
	"github.com/claude/lungecoach/internal/pose"
)

func standingSubject() []pose.Landmark {
	lms := make([]pose.Landmark, pose.NumLandmarks)
	for i := range lms {
		lms[i] = pose.Landmark{X: 0.5, Y: 0.5, Visibility: 1, Presence: 1}
	}
	return lms
}

func lungeSubject() []pose.Landmark {
	lms := standingSubject()
	lms[pose.LeftHip].Y = 0.4
	lms[pose.RightHip].Y = 0.4
	lms[pose.LeftKnee].Y = 0.8
	lms[pose.LeftAnkle].Y = 0.95
	lms[pose.RightKnee].Y = 0.5
	lms[pose.RightAnkle].Y = 0.55
	return lms
}

// TestRunCountsRep replays a recording holding one lunge and verifies the rep
// duration follows the recorded timestamps, not replay speed.
func TestRunCountsRep(t *testing.T) {
	var frames []Frame
	ts := int64(0)
	for i := 0; i < 6; i++ {
		frames = append(frames, Frame{TSMillis: ts, Landmarks: [][]pose.Landmark{lungeSubject()}})
		ts += 100
	}
	for i := 0; i < 6; i++ {
		frames = append(frames, Frame{TSMillis: ts, Landmarks: [][]pose.Landmark{standingSubject()}})
		ts += 100
	}

	summary, err := Run(frames, engine.DefaultTuning(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}

	if summary.Frames != 12 || summary.Processed != 12 {
		t.Errorf("frames = %d processed = %d, want 12/12", summary.Frames, summary.Processed)
	}
	if len(summary.Reps) != 1 {
		t.Fatalf("reps = %d, want 1", len(summary.Reps))
	}

	rep := summary.Reps[0]
	if rep.Leg != engine.LegLeft {
		t.Errorf("leg = %v, want left", rep.Leg)
	}
	// Lunge entered at the 4th lunge frame (ts 300ms, smoothed crosses 0.7)
	// and exited at the 5th standing frame (ts 1000ms, smoothed reaches 0).
	if rep.DurationSec != 0.7 {
		t.Errorf("duration = %vs, want 0.7s", rep.DurationSec)
	}
	if rep.Quality != 100 {
		t.Errorf("quality = %d, want 100", rep.Quality)
	}
}

// TestRunOutcomeTallies verifies the by-outcome counts: invalid frames land
// in Rejected with their cues counted, and frames with no detected subject
// land in Skipped, never in Processed.
func TestRunOutcomeTallies(t *testing.T) {
	dim := standingSubject()
	dim[pose.LeftKnee].Visibility = 0.3

	frames := []Frame{
		{TSMillis: 0, Landmarks: [][]pose.Landmark{dim}},
		{TSMillis: 33, Landmarks: nil}, // no subject in frame
		{TSMillis: 66, Landmarks: [][]pose.Landmark{standingSubject()}},
	}

	summary, err := Run(frames, engine.DefaultTuning(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if summary.Frames != 3 {
		t.Errorf("frames = %d, want 3", summary.Frames)
	}
	if summary.Rejected != 1 || summary.Skipped != 1 || summary.Processed != 1 {
		t.Errorf("rejected/skipped/processed = %d/%d/%d, want 1/1/1",
			summary.Rejected, summary.Skipped, summary.Processed)
	}
	if summary.CueCounts[engine.MsgFullBodyNotVisible] != 1 {
		t.Errorf("cue counts = %v", summary.CueCounts)
	}
}
