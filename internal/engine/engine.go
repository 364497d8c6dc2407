// Package engine turns noisy per-frame body-landmark positions into real-time
// alternating-lunge feedback: a smoothed progress scalar, rep counts with
// leg-alternation validation, live corrective cues, and a post-rep quality
// score. Single-threaded and frame-driven: one ProcessFrame call runs the
// whole pipeline to completion, and rejected frames never mutate state.
package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/lungecoach/internal/pose"
)

// User-facing feedback strings.
const (
	MsgFullBodyNotVisible = "full body not visible"
	MsgStayInFrame        = "stay within camera frame"
	MsgAlternateLegs      = "alternate legs"
	MsgKneeOverAnkle      = "keep front knee over ankle"
	MsgLowerBackKnee      = "lower your back knee"
)

// Sink receives the engine's outputs. Implementations must be cheap and
// non-blocking; they are invoked synchronously inside ProcessFrame.
type Sink interface {
	// IncrementRepCount is called exactly once per completed repetition.
	IncrementRepCount()
	// SendProgressUpdate is called once per validated frame with the
	// smoothed progress in [0,1].
	SendProgressUpdate(value float64)
	// SendFeedbackMessage delivers a transient corrective cue, at most once
	// per frame.
	SendFeedbackMessage(text string)
	// SendStatusMessage delivers the human-readable summary of a completed
	// rep (leg, quality, duration).
	SendStatusMessage(text string)
}

// Outcome classifies what happened to one frame.
type Outcome int

const (
	FrameProcessed Outcome = iota
	FrameNoSubject
	FrameLowVisibility
	FrameOutOfFrame
	FrameMalformed
)

func (o Outcome) String() string {
	switch o {
	case FrameProcessed:
		return "processed"
	case FrameNoSubject:
		return "no_subject"
	case FrameLowVisibility:
		return "low_visibility"
	case FrameOutOfFrame:
		return "out_of_frame"
	case FrameMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the outcome as its string form.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON parses the string form produced by MarshalJSON.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "processed":
		*o = FrameProcessed
	case "no_subject":
		*o = FrameNoSubject
	case "low_visibility":
		*o = FrameLowVisibility
	case "out_of_frame":
		*o = FrameOutOfFrame
	case "malformed":
		*o = FrameMalformed
	default:
		return fmt.Errorf("unknown frame outcome %q", s)
	}
	return nil
}

// RepSummary describes one completed repetition.
type RepSummary struct {
	Number      int           `json:"number"`
	Leg         Leg           `json:"leg"`
	Quality     int           `json:"quality"`
	DurationSec float64       `json:"duration_sec"`
	Duration    time.Duration `json:"-"`
}

// MarshalJSON renders the leg as its string form.
func (l Leg) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON parses the string form produced by MarshalJSON.
func (l *Leg) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseLeg(s)
	return nil
}

// ParseLeg converts a stored leg string back to a Leg.
func ParseLeg(s string) Leg {
	switch s {
	case "left":
		return LegLeft
	case "right":
		return LegRight
	default:
		return LegNone
	}
}

// FrameResult is the typed per-frame outcome returned to the caller. Outputs
// are still pushed through the Sink; the result lets the frame source journal
// or relay what happened without pulling engine state.
type FrameResult struct {
	Outcome  Outcome     `json:"outcome"`
	Progress float64     `json:"progress"`           // smoothed, set when processed
	Feedback string      `json:"feedback,omitempty"` // cue emitted this frame
	Status   string      `json:"status,omitempty"`   // rep summary line
	Rep      *RepSummary `json:"rep,omitempty"`      // non-nil when a rep completed
	Err      error       `json:"-"`                  // set when malformed
}

// State is a copy of the session's mutable exercise state, for inspection.
type State struct {
	InLunge         bool      `json:"in_lunge"`
	LastLeg         Leg       `json:"last_leg"`
	LungeStart      time.Time `json:"lunge_start,omitzero"`
	RepCount        int       `json:"rep_count"`
	ProgressHistory []float64 `json:"progress_history"`
}

// Engine owns the exercise state for one session and runs the frame pipeline:
// validate, compute raw progress, smooth, drive the lunge state machine, and
// assess form. Not safe for concurrent use; the frame source must serialize
// calls (one session has one caller).
type Engine struct {
	tuning Tuning
	sink   Sink
	log    *slog.Logger
	now    func() time.Time

	inLunge    bool
	lastLeg    Leg
	lungeStart time.Time
	repCount   int
	smoothed   *smoother
}

// New creates an engine for a fresh session. Nothing carries over between
// sessions; construct a new engine per session.
func New(tuning Tuning, sink Sink, log *slog.Logger) (*Engine, error) {
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("validating tuning: %w", err)
	}
	if sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		tuning:   tuning,
		sink:     sink,
		log:      log,
		now:      time.Now,
		smoothed: newSmoother(tuning.SmoothingWindow),
	}, nil
}

// SetClock overrides the engine's time source, so rep durations can follow
// recorded frame timestamps instead of wall time. Call before the first frame.
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// ProcessFrame runs one frame's landmark data through the pipeline.
// landmarkSets holds zero or more detected subjects; only the first is used,
// and an empty slice is silently ignored. A frame that fails validation (or
// is malformed) is skipped atomically: no state or smoothing-buffer mutation.
func (e *Engine) ProcessFrame(landmarkSets [][]pose.Landmark) FrameResult {
	if len(landmarkSets) == 0 {
		return FrameResult{Outcome: FrameNoSubject}
	}

	snap, err := pose.SnapshotFrom(landmarkSets[0])
	if err != nil {
		e.log.Warn("skipping malformed frame", "error", err)
		return FrameResult{Outcome: FrameMalformed, Err: err}
	}

	switch validate(snap, e.tuning) {
	case ValidationLowVisibility:
		e.sink.SendFeedbackMessage(MsgFullBodyNotVisible)
		return FrameResult{Outcome: FrameLowVisibility, Feedback: MsgFullBodyNotVisible}
	case ValidationOutOfFrame:
		e.sink.SendFeedbackMessage(MsgStayInFrame)
		return FrameResult{Outcome: FrameOutOfFrame, Feedback: MsgStayInFrame}
	}

	progress := e.smoothed.push(rawProgress(snap, e.tuning))
	e.sink.SendProgressUpdate(progress)

	res := FrameResult{Outcome: FrameProcessed, Progress: progress}

	// Two-state machine with hysteresis: values between the exit and enter
	// thresholds hold the current state, absorbing transient dips.
	switch {
	case !e.inLunge && progress > e.tuning.EnterThreshold:
		e.enterLunge(snap, &res)
	case e.inLunge && progress < e.tuning.ExitThreshold:
		e.exitLunge(snap, &res)
	case e.inLunge:
		if cue, ok := liveFormCue(snap, e.tuning); ok {
			e.sink.SendFeedbackMessage(cue)
			res.Feedback = cue
		}
	}

	return res
}

func (e *Engine) enterLunge(snap pose.Snapshot, res *FrameResult) {
	e.inLunge = true
	e.lungeStart = e.now()

	leg := determineLungeLeg(snap)
	if leg == e.lastLeg && e.lastLeg != LegNone {
		// Same leg twice in a row. lastLeg stays as-is; since the violation
		// only fires on equality, it still names the leg of this lunge.
		e.sink.SendFeedbackMessage(MsgAlternateLegs)
		res.Feedback = MsgAlternateLegs
		return
	}
	e.lastLeg = leg
}

func (e *Engine) exitLunge(snap pose.Snapshot, res *FrameResult) {
	e.inLunge = false
	duration := e.now().Sub(e.lungeStart)
	quality := assessForm(snap, e.tuning)
	e.repCount++

	rep := &RepSummary{
		Number:      e.repCount,
		Leg:         e.lastLeg,
		Quality:     quality,
		DurationSec: duration.Seconds(),
		Duration:    duration,
	}
	status := fmt.Sprintf("rep %d complete: %s leg, quality %d/100, %.1fs",
		rep.Number, rep.Leg, rep.Quality, rep.DurationSec)

	e.sink.IncrementRepCount()
	e.sink.SendStatusMessage(status)

	res.Rep = rep
	res.Status = status
}

// State returns a copy of the current exercise state.
func (e *Engine) State() State {
	return State{
		InLunge:         e.inLunge,
		LastLeg:         e.lastLeg,
		LungeStart:      e.lungeStart,
		RepCount:        e.repCount,
		ProgressHistory: e.smoothed.history(),
	}
}

// RepCount returns the number of completed reps this session.
func (e *Engine) RepCount() int { return e.repCount }

// Tuning returns the thresholds the engine was built with.
func (e *Engine) Tuning() Tuning { return e.tuning }
