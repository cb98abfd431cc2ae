package clock

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// SessionRepository defines what the app layer needs from the session ledger.
type SessionRepository interface {
	Latest(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (*models.ClockSession, error)
	Append(ctx context.Context, db sqlutil.DBTX, s models.ClockSession) error
}

// StatusRepository defines what the app layer needs from the roster side.
type StatusRepository interface {
	GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error)
	SnapshotSubIn(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, seconds int) error
}

// Settler defines what the app layer needs from the minutes accountant.
type Settler interface {
	Settle(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, currentSeconds int) error
}

// TxRunner defines what the app layer needs to scope work to a transaction
// serialized per game.
type TxRunner interface {
	RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error
}

// App handles clock business logic: the append-only session ledger plus the
// status side effects each transition carries.
type App struct {
	sessions SessionRepository
	statuses StatusRepository
	settler  Settler
	txr      TxRunner
	db       sqlutil.DBTX
	clock    clockwork.Clock
}

// NewApp creates a new clock App.
func NewApp(sessions SessionRepository, statuses StatusRepository, settler Settler, txr TxRunner, db sqlutil.DBTX, clk clockwork.Clock) *App {
	return &App{
		sessions: sessions,
		statuses: statuses,
		settler:  settler,
		txr:      txr,
		db:       db,
		clock:    clk,
	}
}

// Start transitions the clock to RUNNING, resuming from the latest session's
// remaining seconds (or the full first period for a fresh game). Every
// on-court player's entry point is snapshotted in the same transaction.
func (a *App) Start(ctx context.Context, gameID uuid.UUID) (*models.ClockSession, error) {
	var session *models.ClockSession
	err := a.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		game, err := a.statuses.GetGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		latest, err := a.sessions.Latest(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if latest != nil && latest.Status == models.ClockStatusRunning {
			return ErrAlreadyRunning
		}

		seconds := game.PeriodLengthSeconds
		period := 1
		if latest != nil {
			seconds = latest.SecondsRemaining
			period = latest.Period
		}

		session, err = a.append(ctx, tx, game, latest, models.ClockStatusRunning, seconds, period)
		if err != nil {
			return err
		}
		return a.statuses.SnapshotSubIn(ctx, tx, gameID, seconds)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID.String()).
		Int("seconds_remaining", session.SecondsRemaining).
		Int("period", session.Period).
		Msg("clock started")
	return session, nil
}

// Pause transitions the clock to PAUSED at the given remaining seconds,
// settling every on-court player's elapsed segment in the same transaction.
func (a *App) Pause(ctx context.Context, gameID uuid.UUID, secondsRemaining int) (*models.ClockSession, error) {
	var session *models.ClockSession
	err := a.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		game, err := a.statuses.GetGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		latest, err := a.sessions.Latest(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if latest == nil || latest.Status != models.ClockStatusRunning {
			return ErrNotRunning
		}
		// The countdown only ever decreases within a running segment.
		if secondsRemaining > latest.SecondsRemaining {
			return ErrInvalidClockValue
		}

		if err := a.settler.Settle(ctx, tx, gameID, secondsRemaining); err != nil {
			return err
		}
		session, err = a.append(ctx, tx, game, latest, models.ClockStatusPaused, secondsRemaining, latest.Period)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID.String()).
		Int("seconds_remaining", session.SecondsRemaining).
		Int("period", session.Period).
		Msg("clock paused")
	return session, nil
}

// Reset appends a PAUSED session at the full period length, preserving the
// current period. Rejected while the clock is running.
func (a *App) Reset(ctx context.Context, gameID uuid.UUID) (*models.ClockSession, error) {
	var session *models.ClockSession
	err := a.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		game, err := a.statuses.GetGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		latest, err := a.sessions.Latest(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if latest != nil && latest.Status == models.ClockStatusRunning {
			return ErrStillRunning
		}

		period := 1
		if latest != nil {
			period = latest.Period
		}
		session, err = a.append(ctx, tx, game, latest, models.ClockStatusPaused, game.PeriodLengthSeconds, period)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID.String()).
		Int("period", session.Period).
		Msg("clock reset")
	return session, nil
}

// AdvancePeriod moves the game to the next period. Only permitted when the
// latest session is PAUSED at zero; the new period restarts the countdown
// frame of reference, so on-court entry points reset to the period length.
func (a *App) AdvancePeriod(ctx context.Context, gameID uuid.UUID) (*models.ClockSession, error) {
	var session *models.ClockSession
	err := a.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		game, err := a.statuses.GetGame(ctx, tx, gameID)
		if err != nil {
			return err
		}
		latest, err := a.sessions.Latest(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if latest != nil && latest.Status == models.ClockStatusRunning {
			return ErrStillRunning
		}
		if latest == nil || latest.SecondsRemaining != 0 {
			return ErrNotAtZero
		}

		session, err = a.append(ctx, tx, game, latest, models.ClockStatusPaused, game.PeriodLengthSeconds, latest.Period+1)
		if err != nil {
			return err
		}
		return a.statuses.SnapshotSubIn(ctx, tx, gameID, game.PeriodLengthSeconds)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID.String()).
		Int("period", session.Period).
		Msg("period advanced")
	return session, nil
}

// Latest returns the most recent session outside any transaction, or nil for
// a fresh game.
func (a *App) Latest(ctx context.Context, gameID uuid.UUID) (*models.ClockSession, error) {
	return a.sessions.Latest(ctx, a.db, gameID)
}

// append validates and writes one session row. CapturedAt is server-assigned
// and must be monotonically non-decreasing per game; the caller holds the
// game lock, so read-then-write here is race-free.
func (a *App) append(ctx context.Context, tx *sql.Tx, game *models.Game, latest *models.ClockSession, status models.ClockStatus, secondsRemaining, period int) (*models.ClockSession, error) {
	if secondsRemaining < 0 || secondsRemaining > game.PeriodLengthSeconds {
		return nil, ErrInvalidClockValue
	}

	capturedAt := a.clock.Now().UTC()
	if latest != nil && capturedAt.Before(latest.CapturedAt) {
		return nil, ErrOutOfOrder
	}

	session := models.ClockSession{
		ID:               uuid.New(),
		GameID:           game.ID,
		Status:           status,
		SecondsRemaining: secondsRemaining,
		Period:           period,
		CapturedAt:       capturedAt,
	}
	if err := a.sessions.Append(ctx, tx, session); err != nil {
		return nil, err
	}
	return &session, nil
}
