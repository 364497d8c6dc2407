package replay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/lungecoach/internal/engine"
)

// Summary aggregates what one replayed recording produced. Skipped counts
// frames with no detected subject; Rejected counts frames that failed
// validation.
type Summary struct {
	Frames    int                 `json:"frames"`
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Rejected  int                 `json:"rejected"`
	Reps      []engine.RepSummary `json:"reps"`
	CueCounts map[string]int      `json:"cue_counts"`
}

// logSink implements engine.Sink by logging every pushed output.
type logSink struct {
	log *slog.Logger
}

func (s *logSink) IncrementRepCount()               { s.log.Info("rep counted") }
func (s *logSink) SendProgressUpdate(value float64) { s.log.Debug("progress", "value", value) }
func (s *logSink) SendFeedbackMessage(text string)  { s.log.Info("feedback", "text", text) }
func (s *logSink) SendStatusMessage(text string)    { s.log.Info("status", "text", text) }

// Run replays frames through a fresh local engine. The engine's clock follows
// the recorded timestamps, so rep durations match the original capture rather
// than replay speed.
func Run(frames []Frame, tuning engine.Tuning, log *slog.Logger) (*Summary, error) {
	base := time.Now()
	var elapsed time.Duration

	eng, err := engine.New(tuning, &logSink{log: log}, log)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	eng.SetClock(func() time.Time { return base.Add(elapsed) })

	summary := &Summary{CueCounts: make(map[string]int)}
	for _, f := range frames {
		elapsed = time.Duration(f.TSMillis) * time.Millisecond
		res := eng.ProcessFrame(f.Landmarks)

		summary.Frames++
		switch res.Outcome {
		case engine.FrameProcessed:
			summary.Processed++
		case engine.FrameNoSubject:
			summary.Skipped++
		default:
			summary.Rejected++
		}
		if res.Feedback != "" {
			summary.CueCounts[res.Feedback]++
		}
		if res.Rep != nil {
			summary.Reps = append(summary.Reps, *res.Rep)
		}
	}
	return summary, nil
}
