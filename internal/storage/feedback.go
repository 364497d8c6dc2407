package storage

import (
	"context"
	"fmt"

	"github.com/claude/lungecoach/internal/models"
	"github.com/google/uuid"
)

// InsertFeedback journals one corrective cue.
func (db *DB) InsertFeedback(ctx context.Context, row models.FeedbackRow) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO feedback_events (id, session_id, message, at) VALUES ($1, $2, $3, $4)`,
		row.ID, row.SessionID, row.Message, row.At)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// QueryFeedback returns a session's cues in emission order.
func (db *DB) QueryFeedback(ctx context.Context, sessionID uuid.UUID) ([]models.FeedbackRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, message, at
		 FROM feedback_events WHERE session_id = $1 ORDER BY at`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []models.FeedbackRow
	for rows.Next() {
		var row models.FeedbackRow
		if err := rows.Scan(&row.ID, &row.SessionID, &row.Message, &row.At); err != nil {
			return nil, fmt.Errorf("scanning feedback: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
