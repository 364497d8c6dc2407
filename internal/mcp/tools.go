package mcp

import (
	"context"
	"time"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List lunge sessions in a time range. Returns session IDs, start/end times, and rep counts."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetSessionSummary = mcp.NewTool("get_session_summary",
	mcp.WithDescription("Aggregate statistics for one session: rep count per leg, average and worst quality score, average rep duration, and how often each corrective cue fired."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolGetSessionReps = mcp.NewTool("get_session_reps",
	mcp.WithDescription("All repetitions of one session in order: leg, quality score (0-100), and duration."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolGetSessionFeedback = mcp.NewTool("get_session_feedback",
	mcp.WithDescription("The corrective cues emitted during one session, in order, with timestamps."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session UUID")),
)

// --- Tool handlers ---

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	rows, err := h.ds.ListSessions(ctx, start, end)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("encode failed: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getSessionSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionIDParam(req)
	if errResult != nil {
		return errResult, nil
	}

	session, err := h.ds.GetSession(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	reps, err := h.ds.QueryReps(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	feedback, err := h.ds.QueryFeedback(ctx, id)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(summarizeSession(session, reps, feedback))
	if err != nil {
		return mcp.NewToolResultError("encode failed: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getSessionReps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionIDParam(req)
	if errResult != nil {
		return errResult, nil
	}

	rows, err := h.ds.QueryReps(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session_reps", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("encode failed: " + err.Error()), nil
	}
	return result, nil
}

func (h *handlers) getSessionFeedback(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := sessionIDParam(req)
	if errResult != nil {
		return errResult, nil
	}

	rows, err := h.ds.QueryFeedback(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session_feedback", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("encode failed: " + err.Error()), nil
	}
	return result, nil
}

func sessionIDParam(req mcp.CallToolRequest) (uuid.UUID, *mcp.CallToolResult) {
	raw, err := req.RequireString("session_id")
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("session_id parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, mcp.NewToolResultError("session_id is not a valid UUID")
	}
	return id, nil
}

// sessionSummary is the derived per-session aggregate returned by
// get_session_summary.
type sessionSummary struct {
	Session        *models.SessionRow `json:"session"`
	RepCount       int                `json:"rep_count"`
	LeftReps       int                `json:"left_reps"`
	RightReps      int                `json:"right_reps"`
	AvgQuality     float64            `json:"avg_quality"`
	WorstQuality   int                `json:"worst_quality"`
	AvgDurationSec float64            `json:"avg_duration_sec"`
	CueCounts      map[string]int     `json:"cue_counts"`
}

func summarizeSession(session *models.SessionRow, reps []models.RepRow, feedback []models.FeedbackRow) sessionSummary {
	s := sessionSummary{
		Session:      session,
		RepCount:     len(reps),
		WorstQuality: 100,
		CueCounts:    make(map[string]int),
	}

	var qualitySum, durationSumMS int64
	for _, r := range reps {
		switch r.Leg {
		case "left":
			s.LeftReps++
		case "right":
			s.RightReps++
		}
		qualitySum += int64(r.Quality)
		durationSumMS += r.DurationMS
		if r.Quality < s.WorstQuality {
			s.WorstQuality = r.Quality
		}
	}
	if len(reps) > 0 {
		s.AvgQuality = float64(qualitySum) / float64(len(reps))
		s.AvgDurationSec = float64(durationSumMS) / float64(len(reps)) / 1000
	} else {
		s.WorstQuality = 0
	}

	for _, f := range feedback {
		s.CueCounts[f.Message]++
	}
	return s
}
