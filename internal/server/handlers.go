package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/lungecoach/internal/engine"
	"github.com/claude/lungecoach/internal/models"
	"github.com/claude/lungecoach/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// frameResponse is the per-frame event document returned to frame senders.
type frameResponse struct {
	engine.FrameResult
	RepCount int `json:"rep_count"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.New()
	now := time.Now()

	// The sink is both the engine's output and the stream fan-out point.
	sink := newBroadcastSink()
	eng, err := engine.New(s.tuning, sink, s.log.With("session", id))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	ls := &liveSession{id: id, eng: eng, sink: sink, startedAt: now}

	if err := s.db.CreateSession(r.Context(), id, now); err != nil {
		s.log.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.registry.add(ls)

	writeJSON(w, http.StatusCreated, models.SessionRow{ID: id, StartedAt: now})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.activeSession(w, r)
	if !ok {
		return
	}

	var payload models.FramePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	resp := s.processAndJournal(r.Context(), ls, payload)
	writeJSON(w, http.StatusOK, resp)
}

// processAndJournal runs one frame through the session engine and journals
// any rep or cue it produced. Journal failures are logged, never surfaced:
// the feedback loop to the user must not stall on storage.
func (s *Server) processAndJournal(ctx context.Context, ls *liveSession, payload models.FramePayload) frameResponse {
	res, count := ls.processFrame(payload.Landmarks)

	if res.Feedback != "" {
		row := models.FeedbackRow{ID: uuid.New(), SessionID: ls.id, Message: res.Feedback, At: time.Now()}
		if err := s.db.InsertFeedback(ctx, row); err != nil {
			s.log.Error("journal feedback", "session", ls.id, "error", err)
		}
	}
	if res.Rep != nil {
		row := models.RepRow{
			ID:          uuid.New(),
			SessionID:   ls.id,
			Number:      res.Rep.Number,
			Leg:         res.Rep.Leg.String(),
			Quality:     res.Rep.Quality,
			DurationMS:  res.Rep.Duration.Milliseconds(),
			CompletedAt: time.Now(),
		}
		if err := s.db.InsertRep(ctx, row); err != nil {
			s.log.Error("journal rep", "session", ls.id, "error", err)
		}
	}

	return frameResponse{FrameResult: res, RepCount: count}
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	ls, ok := s.registry.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}

	// Journal first: if the write fails the session stays live, so the
	// caller can retry instead of losing the engine unrecorded.
	ended := time.Now()
	if err := s.db.FinishSession(r.Context(), id, ended, ls.eng.RepCount()); err != nil {
		s.log.Error("finish session", "session", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.registry.remove(id)

	writeJSON(w, http.StatusOK, models.SessionRow{
		ID: id, StartedAt: ls.startedAt, EndedAt: &ended, RepCount: ls.eng.RepCount(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.db.ListSessions(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	row, err := s.db.GetSession(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleListReps(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	rows, err := s.db.QueryReps(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	rows, err := s.db.QueryFeedback(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleTuning(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tuning)
}

// activeSession resolves the {id} route parameter to a registered live
// session, writing the error response itself on failure.
func (s *Server) activeSession(w http.ResponseWriter, r *http.Request) (*liveSession, bool) {
	id, ok := sessionID(w, r)
	if !ok {
		return nil, false
	}
	ls, ok := s.registry.get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return nil, false
	}
	return ls, true
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

// parseTimeRange reads optional start/end query parameters (RFC 3339 or
// YYYY-MM-DD), defaulting to the last 7 days.
func parseTimeRange(r *http.Request) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if v := r.URL.Query().Get("end"); v != "" {
		t, err := parseFlexTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := parseFlexTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
