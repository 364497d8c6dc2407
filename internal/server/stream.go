package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/claude/lungecoach/internal/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handleStream upgrades to a websocket carrying the live session feed.
// Inbound messages are frame payloads; outbound messages are the engine's
// pushed events (progress, feedback, rep counts, statuses) — including those
// triggered by frames arriving over the POST endpoint. A read-only viewer
// simply never sends.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ls, ok := s.activeSession(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn("websocket accept", "session", ls.id, "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	events, unsubscribe := ls.sink.subscribe()
	defer unsubscribe()

	// Writer: forward pushed events until the connection or session ends.
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := wsjson.Write(ctx, conn, ev); err != nil {
					return
				}
			}
		}
	}()

	// Reader: each inbound message is one frame.
	for {
		var payload models.FramePayload
		if err := wsjson.Read(ctx, conn, &payload); err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				break
			}
			s.log.Debug("websocket read ended", "session", ls.id, "error", err)
			break
		}
		s.processAndJournal(ctx, ls, payload)
	}

	conn.Close(websocket.StatusNormalClosure, "")
	<-writeDone
}
