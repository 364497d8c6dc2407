package server

import (
	"sync"
	"time"

	"github.com/claude/lungecoach/internal/engine"
	"github.com/claude/lungecoach/internal/pose"
	"github.com/google/uuid"
)

// Event is one pushed engine output, fanned out to stream subscribers.
type Event struct {
	Type     string  `json:"type"` // rep_count | progress | feedback | status
	RepCount int     `json:"rep_count,omitempty"`
	Progress float64 `json:"progress,omitempty"`
	Text     string  `json:"text,omitempty"`
}

// broadcastSink implements engine.Sink by fanning callbacks out to websocket
// subscribers. Publishes never block the frame pipeline: a subscriber that
// cannot keep up drops events.
type broadcastSink struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
	reps int
}

func newBroadcastSink() *broadcastSink {
	return &broadcastSink{subs: make(map[chan Event]struct{})}
}

func (b *broadcastSink) IncrementRepCount() {
	b.mu.Lock()
	b.reps++
	reps := b.reps
	b.mu.Unlock()
	b.publish(Event{Type: "rep_count", RepCount: reps})
}

func (b *broadcastSink) SendProgressUpdate(value float64) {
	b.publish(Event{Type: "progress", Progress: value})
}

func (b *broadcastSink) SendFeedbackMessage(text string) {
	b.publish(Event{Type: "feedback", Text: text})
}

func (b *broadcastSink) SendStatusMessage(text string) {
	b.publish(Event{Type: "status", Text: text})
}

func (b *broadcastSink) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default: // slow subscriber, drop
		}
	}
}

// subscribe registers a new event channel; the returned func unsubscribes.
func (b *broadcastSink) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
	}
}

// liveSession is one active exercise session: a fresh engine plus its sink.
// The mutex serializes frame delivery, upholding the engine's single-caller
// contract when frames arrive over both POST and websocket.
type liveSession struct {
	mu        sync.Mutex
	id        uuid.UUID
	eng       *engine.Engine
	sink      *broadcastSink
	startedAt time.Time
}

// processFrame runs one frame through the session's engine.
func (s *liveSession) processFrame(landmarks [][]pose.Landmark) (engine.FrameResult, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.eng.ProcessFrame(landmarks)
	return res, s.eng.RepCount()
}

// registry holds the active sessions.
type registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

func newRegistry() *registry {
	return &registry{sessions: make(map[uuid.UUID]*liveSession)}
}

func (r *registry) add(s *liveSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *registry) get(id uuid.UUID) (*liveSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) remove(id uuid.UUID) (*liveSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}
