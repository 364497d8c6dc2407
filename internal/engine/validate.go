package engine

import "github.com/claude/lungecoach/internal/pose"

// Validation is the outcome of the per-frame landmark gate.
type Validation int

const (
	// ValidationOK means all six landmarks are visible and inside the frame.
	ValidationOK Validation = iota
	// ValidationLowVisibility means at least one landmark has visibility
	// below the threshold (missing scores count as zero).
	ValidationLowVisibility
	// ValidationOutOfFrame means at least one landmark lies outside [0,1].
	ValidationOutOfFrame
)

// validate gates a snapshot before any state is touched. Pure predicate;
// the caller emits feedback and skips the frame on failure.
func validate(snap pose.Snapshot, t Tuning) Validation {
	if snap.MinVisibility() < t.VisibilityThreshold {
		return ValidationLowVisibility
	}
	if !snap.InFrame() {
		return ValidationOutOfFrame
	}
	return ValidationOK
}
