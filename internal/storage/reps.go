package storage

import (
	"context"
	"fmt"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
)

// InsertRep journals a completed repetition and bumps the session's live rep
// count in the same round trip.
func (db *DB) InsertRep(ctx context.Context, row models.RepRow) error {
	batch := `WITH inserted AS (
		INSERT INTO reps (id, session_id, number, leg, quality, duration_ms, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	)
	UPDATE sessions SET rep_count = rep_count + 1 WHERE id = $2`
	_, err := db.Pool.Exec(ctx, batch,
		row.ID, row.SessionID, row.Number, row.Leg, row.Quality, row.DurationMS, row.CompletedAt)
	if err != nil {
		return fmt.Errorf("inserting rep: %w", err)
	}
	return nil
}

// QueryReps returns a session's reps in completion order.
func (db *DB) QueryReps(ctx context.Context, sessionID uuid.UUID) ([]models.RepRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, number, leg, quality, duration_ms, completed_at
		 FROM reps WHERE session_id = $1 ORDER BY number`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying reps: %w", err)
	}
	defer rows.Close()

	var out []models.RepRow
	for rows.Next() {
		var row models.RepRow
		if err := rows.Scan(&row.ID, &row.SessionID, &row.Number, &row.Leg,
			&row.Quality, &row.DurationMS, &row.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning rep: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
