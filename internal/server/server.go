package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/lungecoach/internal/engine"
	"github.com/claude/lungecoach/internal/models"
	"github.com/claude/lungecoach/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Journal is the subset of the storage layer the handlers touch. Satisfied
// by *storage.DB; tests substitute an in-memory implementation.
type Journal interface {
	CreateSession(ctx context.Context, id uuid.UUID, startedAt time.Time) error
	FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time, repCount int) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.SessionRow, error)
	ListSessions(ctx context.Context, start, end time.Time) ([]models.SessionRow, error)
	InsertRep(ctx context.Context, row models.RepRow) error
	QueryReps(ctx context.Context, sessionID uuid.UUID) ([]models.RepRow, error)
	InsertFeedback(ctx context.Context, row models.FeedbackRow) error
	QueryFeedback(ctx context.Context, sessionID uuid.UUID) ([]models.FeedbackRow, error)
}

// Compile-time check: *storage.DB satisfies Journal.
var _ Journal = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Journal
	registry *registry
	tuning   engine.Tuning
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. Every session started
// through it gets a fresh engine built from the given tuning.
func New(db Journal, tuning engine.Tuning, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		registry: newRegistry(),
		tuning:   tuning,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Frame ingest and session lifecycle (API key required; the stream
	// upgrade may carry the key as a query parameter)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleCreateSession)
		r.Post("/api/v1/sessions/{id}/frames", s.handleFrame)
		r.Post("/api/v1/sessions/{id}/finish", s.handleFinishSession)
		r.Get("/api/v1/sessions/{id}/stream", s.handleStream)
	})

	// Dashboard API endpoints
	s.router.Get("/api/v1/sessions", s.handleListSessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/sessions/{id}/reps", s.handleListReps)
	s.router.Get("/api/v1/sessions/{id}/feedback", s.handleListFeedback)
	s.router.Get("/api/v1/tuning", s.handleTuning)
}
