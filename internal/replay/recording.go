// Package replay feeds recorded landmark frames back through the analysis
// pipeline, either locally against a fresh engine or remotely against a
// running server. Recordings are JSONL: one frame per line.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/claude/lungecoach/internal/pose"
)

// Frame is one recorded camera frame: a capture timestamp in milliseconds
// (relative to the start of the recording) and the detected subjects.
type Frame struct {
	TSMillis  int64             `json:"ts_ms"`
	Landmarks [][]pose.Landmark `json:"landmarks"`
}

// ReadRecording parses a JSONL recording. Blank lines are skipped; any other
// unparseable line fails the whole read with its line number.
func ReadRecording(r io.Reader) ([]Frame, error) {
	sc := bufio.NewScanner(r)
	// Landmark lines run long: 33 landmarks x 5 floats per subject.
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var frames []Frame
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("parsing recording line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading recording: %w", err)
	}
	return frames, nil
}

// LoadRecording reads a JSONL recording file.
func LoadRecording(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recording %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecording(f)
}
