package substitution

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/courtside/go/internal/minutes"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/roster"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// SessionRepository defines what the coordinator needs from the clock ledger.
type SessionRepository interface {
	Latest(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (*models.ClockSession, error)
}

// StatusRepository defines what the coordinator needs from the roster side.
type StatusRepository interface {
	GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error)
	GetPlayer(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Player, error)
	GetStatus(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID) (*models.PlayerGameStatus, error)
	SetOnCourt(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID, subInSeconds int) error
	SetBenched(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID) error
}

// Settler defines what the coordinator needs from the minutes accountant.
type Settler interface {
	Settle(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, currentSeconds int) error
}

// EventRepository defines what the coordinator needs from the event ledger.
type EventRepository interface {
	Insert(ctx context.Context, db sqlutil.DBTX, e models.GameEvent) (bool, error)
}

// TxRunner defines what the coordinator needs to scope work to a transaction
// serialized per game.
type TxRunner interface {
	RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error
}

// Result carries the two ledger rows a substitution emits. Both record the
// exact clock snapshot used for the swap, keeping the event log and the
// derived minutes mutually consistent.
type Result struct {
	SubOut models.GameEvent `json:"sub_out"`
	SubIn  models.GameEvent `json:"sub_in"`
}

// Coordinator atomically swaps on-court status for two players, crediting the
// outgoing player's partial segment when the clock is running.
type Coordinator struct {
	sessions SessionRepository
	statuses StatusRepository
	settler  Settler
	events   EventRepository
	txr      TxRunner
	clock    clockwork.Clock
}

// NewCoordinator creates a new substitution coordinator.
func NewCoordinator(sessions SessionRepository, statuses StatusRepository, settler Settler, events EventRepository, txr TxRunner, clk clockwork.Clock) *Coordinator {
	return &Coordinator{
		sessions: sessions,
		statuses: statuses,
		settler:  settler,
		events:   events,
		txr:      txr,
		clock:    clk,
	}
}

// Substitute swaps playerOut for playerIn within one transaction. While the
// clock runs, the live countdown is derived from the latest session rather
// than trusting the stale stored value, and all on-court players are settled
// before the swap so the outgoing player's partial segment is credited.
func (c *Coordinator) Substitute(ctx context.Context, gameID, playerOutID, playerInID uuid.UUID, period int) (*Result, error) {
	if playerOutID == playerInID {
		return nil, ErrSamePlayer
	}

	var result Result
	err := c.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		game, err := c.statuses.GetGame(ctx, tx, gameID)
		if err != nil {
			return err
		}

		playerOut, err := c.statuses.GetPlayer(ctx, tx, playerOutID)
		if err != nil {
			return err
		}
		playerIn, err := c.statuses.GetPlayer(ctx, tx, playerInID)
		if err != nil {
			return err
		}
		if playerOut.TeamID != playerIn.TeamID {
			return ErrCrossTeam
		}
		side, ok := game.SideOf(playerOut.TeamID)
		if !ok {
			return roster.ErrPlayerNotInGame
		}

		statusOut, err := c.statuses.GetStatus(ctx, tx, gameID, playerOutID)
		if err != nil {
			return err
		}
		if !statusOut.IsOnCourt {
			return fmt.Errorf("player %s: %w", playerOutID, ErrNotOnCourt)
		}
		statusIn, err := c.statuses.GetStatus(ctx, tx, gameID, playerInID)
		if err != nil {
			return err
		}
		if statusIn.IsOnCourt {
			return fmt.Errorf("player %s: %w", playerInID, ErrAlreadyOnCourt)
		}

		latest, err := c.sessions.Latest(ctx, tx, gameID)
		if err != nil {
			return err
		}

		currentClock := game.PeriodLengthSeconds
		if latest != nil {
			currentClock = minutes.CurrentClock(latest, c.clock.Now())
		}
		running := latest != nil && latest.Status == models.ClockStatusRunning

		// Paused clock means no segment has elapsed to credit.
		if running {
			if err := c.settler.Settle(ctx, tx, gameID, currentClock); err != nil {
				return err
			}
		}

		if err := c.statuses.SetBenched(ctx, tx, gameID, playerOutID); err != nil {
			return err
		}
		if err := c.statuses.SetOnCourt(ctx, tx, gameID, playerInID, currentClock); err != nil {
			return err
		}

		result.SubOut = c.subEvent(gameID, models.EventSubOut, side, playerOutID, period, currentClock)
		result.SubIn = c.subEvent(gameID, models.EventSubIn, side, playerInID, period, currentClock)
		if _, err := c.events.Insert(ctx, tx, result.SubOut); err != nil {
			return err
		}
		if _, err := c.events.Insert(ctx, tx, result.SubIn); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID.String()).
		Str("player_out", playerOutID.String()).
		Str("player_in", playerInID.String()).
		Int("clock_seconds", result.SubIn.ClockSeconds).
		Msg("substitution made")
	return &result, nil
}

func (c *Coordinator) subEvent(gameID uuid.UUID, kind models.EventKind, side models.TeamSide, playerID uuid.UUID, period, clockSeconds int) models.GameEvent {
	pid := playerID
	return models.GameEvent{
		ID:             uuid.New(),
		GameID:         gameID,
		Type:           kind,
		TeamSide:       side,
		PlayerID:       &pid,
		Period:         period,
		ClockSeconds:   clockSeconds,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      c.clock.Now().UTC(),
	}
}
