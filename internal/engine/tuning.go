package engine

import "fmt"

// Tuning holds the thresholds driving frame validation, progress smoothing,
// and the lunge state machine. Injected at construction so tests and config
// can exercise boundary values without recompiling.
type Tuning struct {
	// VisibilityThreshold is the minimum per-landmark visibility score for a
	// frame to be processed (and for live-form cues to fire).
	VisibilityThreshold float64 `yaml:"visibility_threshold" json:"visibility_threshold"`

	// MinKneeSeparation is the vertical knee distance below which the legs
	// are considered too close together to be in a lunge.
	MinKneeSeparation float64 `yaml:"min_knee_separation" json:"min_knee_separation"`

	// AlignmentThreshold is the maximum horizontal front knee/ankle offset
	// before form feedback and quality penalties apply.
	AlignmentThreshold float64 `yaml:"alignment_threshold" json:"alignment_threshold"`

	// EnterThreshold and ExitThreshold are the hysteresis cutoffs on smoothed
	// progress for the Standing->Lunging and Lunging->Standing transitions.
	EnterThreshold float64 `yaml:"enter_threshold" json:"enter_threshold"`
	ExitThreshold  float64 `yaml:"exit_threshold" json:"exit_threshold"`

	// SmoothingWindow is the size of the moving-average buffer over raw
	// progress values.
	SmoothingWindow int `yaml:"smoothing_window" json:"smoothing_window"`
}

// DefaultTuning returns the standard thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		VisibilityThreshold: 0.5,
		MinKneeSeparation:   0.02,
		AlignmentThreshold:  0.1,
		EnterThreshold:      0.7,
		ExitThreshold:       0.2,
		SmoothingWindow:     5,
	}
}

// Validate checks internal consistency of the thresholds.
func (t Tuning) Validate() error {
	if t.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be >= 1, got %d", t.SmoothingWindow)
	}
	if t.EnterThreshold <= t.ExitThreshold {
		return fmt.Errorf("enter_threshold (%.2f) must exceed exit_threshold (%.2f)", t.EnterThreshold, t.ExitThreshold)
	}
	if t.VisibilityThreshold < 0 || t.VisibilityThreshold > 1 {
		return fmt.Errorf("visibility_threshold must be in [0,1], got %.2f", t.VisibilityThreshold)
	}
	if t.MinKneeSeparation < 0 {
		return fmt.Errorf("min_knee_separation must be >= 0, got %.3f", t.MinKneeSeparation)
	}
	if t.AlignmentThreshold <= 0 {
		return fmt.Errorf("alignment_threshold must be > 0, got %.3f", t.AlignmentThreshold)
	}
	return nil
}
