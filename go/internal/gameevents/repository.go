package gameevents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

// Repository implements event-ledger data access. Rows are append-only and
// deduplicated per game by idempotency key.
type Repository struct{}

// NewRepository creates a new game event repository.
func NewRepository() *Repository {
	return &Repository{}
}

// Insert appends one event. A replayed idempotency key inserts nothing and
// returns false, leaving the ledger untouched.
func (r *Repository) Insert(ctx context.Context, db sqlutil.DBTX, e models.GameEvent) (bool, error) {
	detail := pqtype.NullRawMessage{RawMessage: e.Detail, Valid: len(e.Detail) > 0}

	res, err := db.ExecContext(ctx, `
		INSERT INTO game_events
			(id, game_id, event_type, team_side, player_id, period, clock_seconds, detail, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (game_id, idempotency_key) DO NOTHING`,
		e.ID, e.GameID, e.Type, e.TeamSide, sqlutil.ToNullUUID(e.PlayerID),
		e.Period, e.ClockSeconds, detail, e.IdempotencyKey, e.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert game event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// GetByIdempotencyKey fetches the event previously stored under a key.
func (r *Repository) GetByIdempotencyKey(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, key string) (*models.GameEvent, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, game_id, event_type, team_side, player_id, period, clock_seconds, detail, idempotency_key, created_at
		FROM game_events
		WHERE game_id = $1 AND idempotency_key = $2`, gameID, key)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game event: %w", err)
	}
	return e, nil
}

// ListByGame returns the full ledger for a game in insertion order. The box
// score is a fold over exactly this ordering.
func (r *Repository) ListByGame(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.GameEvent, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, game_id, event_type, team_side, player_id, period, clock_seconds, detail, idempotency_key, created_at
		FROM game_events
		WHERE game_id = $1
		ORDER BY created_at, id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list game events: %w", err)
	}
	defer rows.Close()

	var events []models.GameEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*models.GameEvent, error) {
	var e models.GameEvent
	var playerID uuid.NullUUID
	var detail pqtype.NullRawMessage
	if err := row.Scan(&e.ID, &e.GameID, &e.Type, &e.TeamSide, &playerID,
		&e.Period, &e.ClockSeconds, &detail, &e.IdempotencyKey, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.PlayerID = sqlutil.FromNullUUID(playerID)
	if detail.Valid {
		e.Detail = detail.RawMessage
	}
	return &e, nil
}
