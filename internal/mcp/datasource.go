package mcp

import (
	"context"
	"time"

	"github.com/claude/lungecoach/internal/models"
	"github.com/claude/lungecoach/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.SessionRow, error)
	ListSessions(ctx context.Context, start, end time.Time) ([]models.SessionRow, error)
	QueryReps(ctx context.Context, sessionID uuid.UUID) ([]models.RepRow, error)
	QueryFeedback(ctx context.Context, sessionID uuid.UUID) ([]models.FeedbackRow, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
