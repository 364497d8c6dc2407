package models

import (
	"time"

	"github.com/claude/lungecoach/internal/pose"
	"github.com/google/uuid"
)

// SessionRow is one exercise session as journaled by the server.
type SessionRow struct {
	ID        uuid.UUID  `json:"id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	RepCount  int        `json:"rep_count"`
}

// RepRow is one completed repetition.
type RepRow struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	Number      int       `json:"number"`
	Leg         string    `json:"leg"`
	Quality     int       `json:"quality"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// FeedbackRow is one corrective cue emitted during a session.
type FeedbackRow struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// FramePayload is the wire format of one frame delivered to the server:
// zero or more detected subjects, each a full landmark set. Only the first
// subject is analyzed.
type FramePayload struct {
	Landmarks [][]pose.Landmark `json:"landmarks"`
}
