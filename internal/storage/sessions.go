package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// CreateSession journals a new session row.
func (db *DB) CreateSession(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, started_at, rep_count) VALUES ($1, $2, 0)`,
		id, startedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// FinishSession marks a session ended and records its final rep count.
func (db *DB) FinishSession(ctx context.Context, id uuid.UUID, endedAt time.Time, repCount int) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE sessions SET ended_at = $2, rep_count = $3 WHERE id = $1`,
		id, endedAt, repCount)
	if err != nil {
		return fmt.Errorf("finishing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession returns one session by ID.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.SessionRow, error) {
	var row models.SessionRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, started_at, ended_at, rep_count FROM sessions WHERE id = $1`,
		id).Scan(&row.ID, &row.StartedAt, &row.EndedAt, &row.RepCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &row, nil
}

// ListSessions returns sessions started within [start, end], newest first.
func (db *DB) ListSessions(ctx context.Context, start, end time.Time) ([]models.SessionRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, started_at, ended_at, rep_count FROM sessions
		 WHERE started_at >= $1 AND started_at <= $2
		 ORDER BY started_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []models.SessionRow
	for rows.Next() {
		var row models.SessionRow
		if err := rows.Scan(&row.ID, &row.StartedAt, &row.EndedAt, &row.RepCount); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
