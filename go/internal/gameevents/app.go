package gameevents

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// EventRepository defines what the app layer needs from the event ledger.
type EventRepository interface {
	Insert(ctx context.Context, db sqlutil.DBTX, e models.GameEvent) (bool, error)
	GetByIdempotencyKey(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, key string) (*models.GameEvent, error)
	ListByGame(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.GameEvent, error)
}

// Recomputer defines what the app layer needs from the box-score aggregator.
type Recomputer interface {
	Recompute(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) error
}

// TxRunner defines what the app layer needs to scope work to a transaction
// serialized per game.
type TxRunner interface {
	RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error
}

// RecordEventRequest carries one client-recorded play.
type RecordEventRequest struct {
	Type           models.EventKind `json:"type"`
	TeamSide       models.TeamSide  `json:"team_side"`
	PlayerID       *uuid.UUID       `json:"player_id,omitempty"`
	Period         int              `json:"period"`
	ClockSeconds   int              `json:"clock_seconds"`
	Detail         json.RawMessage  `json:"detail,omitempty"`
	IdempotencyKey string           `json:"idempotency_key"`
}

// Validate rejects requests before they touch the ledger.
func (r RecordEventRequest) Validate() error {
	if !r.Type.Known() {
		return fmt.Errorf("%q: %w", r.Type, ErrUnknownKind)
	}
	if r.Type.RequiresPlayer() && r.PlayerID == nil {
		return fmt.Errorf("%q: %w", r.Type, ErrPlayerRequired)
	}
	if r.IdempotencyKey == "" {
		return ErrMissingIdempotencyKey
	}
	if r.TeamSide != models.TeamSideHome && r.TeamSide != models.TeamSideAway {
		return fmt.Errorf("invalid team side %q", r.TeamSide)
	}
	if r.Period < 1 {
		return fmt.Errorf("invalid period %d", r.Period)
	}
	if r.ClockSeconds < 0 {
		return fmt.Errorf("invalid clock seconds %d", r.ClockSeconds)
	}
	return nil
}

// App handles event-ledger business logic.
type App struct {
	repo       EventRepository
	recomputer Recomputer
	txr        TxRunner
	db         sqlutil.DBTX
	clock      clockwork.Clock
}

// NewApp creates a new game events App.
func NewApp(repo EventRepository, recomputer Recomputer, txr TxRunner, db sqlutil.DBTX, clk clockwork.Clock) *App {
	return &App{
		repo:       repo,
		recomputer: recomputer,
		txr:        txr,
		db:         db,
		clock:      clk,
	}
}

// RecordEvent appends one event to the ledger and recomputes the box score
// in the same transaction. A replayed idempotency key is success-no-op: the
// previously stored event is returned with applied=false and nothing is
// recomputed.
func (a *App) RecordEvent(ctx context.Context, gameID uuid.UUID, req RecordEventRequest) (event *models.GameEvent, applied bool, err error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	err = a.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		candidate := models.GameEvent{
			ID:             uuid.New(),
			GameID:         gameID,
			Type:           req.Type,
			TeamSide:       req.TeamSide,
			PlayerID:       req.PlayerID,
			Period:         req.Period,
			ClockSeconds:   req.ClockSeconds,
			Detail:         req.Detail,
			IdempotencyKey: req.IdempotencyKey,
			CreatedAt:      a.clock.Now().UTC(),
		}

		inserted, err := a.repo.Insert(ctx, tx, candidate)
		if err != nil {
			return err
		}
		if !inserted {
			existing, err := a.repo.GetByIdempotencyKey(ctx, tx, gameID, req.IdempotencyKey)
			if err != nil {
				return err
			}
			event, applied = existing, false
			return nil
		}

		event, applied = &candidate, true
		return a.recomputer.Recompute(ctx, tx, gameID)
	})
	if err != nil {
		return nil, false, err
	}

	if !applied {
		log.Info().
			Str("game_id", gameID.String()).
			Str("idempotency_key", req.IdempotencyKey).
			Msg("duplicate event delivery ignored")
	}
	return event, applied, nil
}

// ListEvents returns the ledger in insertion order, read outside any
// transaction.
func (a *App) ListEvents(ctx context.Context, gameID uuid.UUID) ([]models.GameEvent, error) {
	return a.repo.ListByGame(ctx, a.db, gameID)
}
