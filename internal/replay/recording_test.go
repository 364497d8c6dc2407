package replay

import (
	"strings"
	"testing"
)

// TestReadRecording parses a small JSONL recording, skipping blank lines.
func TestReadRecording(t *testing.T) {
	input := `{"ts_ms":0,"landmarks":[[{"x":0.5,"y":0.5,"z":0,"visibility":1,"presence":1}]]}

{"ts_ms":33,"landmarks":[]}
`
	frames, err := ReadRecording(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].TSMillis != 0 || frames[1].TSMillis != 33 {
		t.Errorf("timestamps = %d, %d, want 0, 33", frames[0].TSMillis, frames[1].TSMillis)
	}
	if len(frames[0].Landmarks) != 1 || len(frames[0].Landmarks[0]) != 1 {
		t.Errorf("frame 0 landmarks = %+v", frames[0].Landmarks)
	}
	if frames[0].Landmarks[0][0].X != 0.5 {
		t.Errorf("landmark x = %v, want 0.5", frames[0].Landmarks[0][0].X)
	}
}

// TestReadRecordingBadLine verifies a malformed line fails the read and the
// error names the offending line.
func TestReadRecordingBadLine(t *testing.T) {
	input := `{"ts_ms":0,"landmarks":[]}
{not json}
`
	_, err := ReadRecording(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want mention of line 2", err)
	}
}
