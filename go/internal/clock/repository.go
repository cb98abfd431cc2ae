package clock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

// Repository implements clock-session data access. The table is an
// append-only ledger; rows are never updated or deleted.
type Repository struct{}

// NewRepository creates a new clock session repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Latest returns the most recent session for the game, or nil when the game
// has no sessions yet. Served by the (game_id, captured_at DESC) index.
func (r *Repository) Latest(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (*models.ClockSession, error) {
	var s models.ClockSession
	err := db.QueryRowContext(ctx, `
		SELECT id, game_id, status, seconds_remaining, period, captured_at
		FROM clock_sessions
		WHERE game_id = $1
		ORDER BY captured_at DESC, id DESC
		LIMIT 1`, gameID).
		Scan(&s.ID, &s.GameID, &s.Status, &s.SecondsRemaining, &s.Period, &s.CapturedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest session: %w", err)
	}
	return &s, nil
}

// Append inserts one immutable session row.
func (r *Repository) Append(ctx context.Context, db sqlutil.DBTX, s models.ClockSession) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO clock_sessions (id, game_id, status, seconds_remaining, period, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.GameID, s.Status, s.SecondsRemaining, s.Period, s.CapturedAt)
	if err != nil {
		return fmt.Errorf("failed to append session: %w", err)
	}
	return nil
}
