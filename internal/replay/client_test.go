package replay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
)

// TestClientSessionLifecycle drives start → frame → finish against a fake
// server and verifies paths, API key, and response decoding.
func TestClientSessionLifecycle(t *testing.T) {
	id := uuid.New()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "key" {
			t.Errorf("X-API-Key = %q, want key", got)
		}
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/sessions":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.SessionRow{ID: id, StartedAt: time.Now()})
		case "/api/v1/sessions/" + id.String() + "/frames":
			json.NewEncoder(w).Encode(map[string]any{"outcome": "processed", "progress": 0.5, "rep_count": 2})
		case "/api/v1/sessions/" + id.String() + "/finish":
			ended := time.Now()
			json.NewEncoder(w).Encode(models.SessionRow{ID: id, EndedAt: &ended, RepCount: 2})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "key")

	got, err := client.StartSession()
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("session id = %v, want %v", got, id)
	}

	ev, err := client.SendFrame(id, Frame{TSMillis: 0, Landmarks: nil})
	if err != nil {
		t.Fatal(err)
	}
	if ev.RepCount != 2 || ev.Progress != 0.5 {
		t.Errorf("frame event = %+v", ev)
	}

	row, err := client.FinishSession(id)
	if err != nil {
		t.Fatal(err)
	}
	if row.RepCount != 2 || row.EndedAt == nil {
		t.Errorf("finish row = %+v", row)
	}
}

// TestSendFrameRetries verifies transient server errors are retried and the
// frame eventually succeeds.
func TestSendFrameRetries(t *testing.T) {
	id := uuid.New()
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			http.Error(w, `{"error":"busy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"outcome": "processed", "rep_count": 0})
	}))
	defer ts.Close()

	ev, err := NewClient(ts.URL, "key").SendFrame(id, Frame{})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if ev.RepCount != 0 {
		t.Errorf("rep count = %d, want 0", ev.RepCount)
	}
}
