package mcp

import (
	"testing"
	"time"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
)

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 { // ~168 hours = 7 days
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2026 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2026-01-01", start)
	}
	if end.Year() != 2026 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2026-01-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2026-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestSummarizeSession verifies per-leg counts, quality aggregates, and cue
// tallies over a small session.
func TestSummarizeSession(t *testing.T) {
	id := uuid.New()
	session := &models.SessionRow{ID: id, StartedAt: time.Now(), RepCount: 3}
	reps := []models.RepRow{
		{SessionID: id, Number: 1, Leg: "left", Quality: 100, DurationMS: 2000},
		{SessionID: id, Number: 2, Leg: "right", Quality: 70, DurationMS: 3000},
		{SessionID: id, Number: 3, Leg: "left", Quality: 80, DurationMS: 2500},
	}
	feedback := []models.FeedbackRow{
		{SessionID: id, Message: "keep front knee over ankle"},
		{SessionID: id, Message: "keep front knee over ankle"},
		{SessionID: id, Message: "alternate legs"},
	}

	s := summarizeSession(session, reps, feedback)

	if s.RepCount != 3 {
		t.Errorf("RepCount = %d, want 3", s.RepCount)
	}
	if s.LeftReps != 2 || s.RightReps != 1 {
		t.Errorf("leg split = %d/%d, want 2/1", s.LeftReps, s.RightReps)
	}
	if want := (100.0 + 70 + 80) / 3; s.AvgQuality != want {
		t.Errorf("AvgQuality = %v, want %v", s.AvgQuality, want)
	}
	if s.WorstQuality != 70 {
		t.Errorf("WorstQuality = %d, want 70", s.WorstQuality)
	}
	if want := 2.5; s.AvgDurationSec != want {
		t.Errorf("AvgDurationSec = %v, want %v", s.AvgDurationSec, want)
	}
	if s.CueCounts["keep front knee over ankle"] != 2 {
		t.Errorf("cue count = %d, want 2", s.CueCounts["keep front knee over ankle"])
	}
}

// TestSummarizeSessionEmpty verifies the zero-rep session summary stays sane.
func TestSummarizeSessionEmpty(t *testing.T) {
	session := &models.SessionRow{ID: uuid.New(), StartedAt: time.Now()}
	s := summarizeSession(session, nil, nil)

	if s.RepCount != 0 || s.AvgQuality != 0 || s.WorstQuality != 0 {
		t.Errorf("empty summary = %+v, want zeroed aggregates", s)
	}
}
