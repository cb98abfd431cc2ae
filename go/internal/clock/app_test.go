package clock

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

type fakeSessions struct {
	latest   *models.ClockSession
	appended []models.ClockSession
}

func (f *fakeSessions) Latest(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (*models.ClockSession, error) {
	return f.latest, nil
}

func (f *fakeSessions) Append(ctx context.Context, db sqlutil.DBTX, s models.ClockSession) error {
	f.appended = append(f.appended, s)
	f.latest = &s
	return nil
}

type fakeStatuses struct {
	game      *models.Game
	snapshots []int
}

func (f *fakeStatuses) GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error) {
	return f.game, nil
}

func (f *fakeStatuses) SnapshotSubIn(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, seconds int) error {
	f.snapshots = append(f.snapshots, seconds)
	return nil
}

type fakeSettler struct {
	settledAt []int
}

func (f *fakeSettler) Settle(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, currentSeconds int) error {
	f.settledAt = append(f.settledAt, currentSeconds)
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fixture struct {
	app      *App
	sessions *fakeSessions
	statuses *fakeStatuses
	settler  *fakeSettler
	clk      *clockwork.FakeClock
	gameID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gameID := uuid.New()
	sessions := &fakeSessions{}
	statuses := &fakeStatuses{
		game: &models.Game{ID: gameID, PeriodLengthSeconds: 600},
	}
	settler := &fakeSettler{}
	clk := clockwork.NewFakeClockAt(time.Date(2025, 11, 2, 19, 0, 0, 0, time.UTC))
	return &fixture{
		app:      NewApp(sessions, statuses, settler, fakeTxRunner{}, nil, clk),
		sessions: sessions,
		statuses: statuses,
		settler:  settler,
		clk:      clk,
		gameID:   gameID,
	}
}

func TestStartFreshGame(t *testing.T) {
	f := newFixture(t)

	session, err := f.app.Start(context.Background(), f.gameID)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if session.Status != models.ClockStatusRunning {
		t.Errorf("status = %s, want RUNNING", session.Status)
	}
	if session.SecondsRemaining != 600 || session.Period != 1 {
		t.Errorf("got %d seconds period %d, want 600 seconds period 1", session.SecondsRemaining, session.Period)
	}
	if len(f.statuses.snapshots) != 1 || f.statuses.snapshots[0] != 600 {
		t.Errorf("snapshots = %v, want [600]", f.statuses.snapshots)
	}
}

func TestStartWhileRunning(t *testing.T) {
	f := newFixture(t)
	if _, err := f.app.Start(context.Background(), f.gameID); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if _, err := f.app.Start(context.Background(), f.gameID); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Start() while running = %v, want ErrAlreadyRunning", err)
	}
	if len(f.sessions.appended) != 1 {
		t.Errorf("appended %d sessions, want 1", len(f.sessions.appended))
	}
}

func TestPauseSettlesAndAppends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.app.Start(ctx, f.gameID); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	f.clk.Advance(180 * time.Second)

	session, err := f.app.Pause(ctx, f.gameID, 420)
	if err != nil {
		t.Fatalf("Pause() error: %v", err)
	}
	if session.Status != models.ClockStatusPaused || session.SecondsRemaining != 420 {
		t.Errorf("got %s at %d, want PAUSED at 420", session.Status, session.SecondsRemaining)
	}
	if len(f.settler.settledAt) != 1 || f.settler.settledAt[0] != 420 {
		t.Errorf("settled at %v, want [420]", f.settler.settledAt)
	}
}

func TestPauseRejections(t *testing.T) {
	t.Run("not running", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.app.Pause(context.Background(), f.gameID, 400); !errors.Is(err, ErrNotRunning) {
			t.Errorf("Pause() = %v, want ErrNotRunning", err)
		}
	})

	t.Run("already paused", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.app.Start(ctx, f.gameID)
		if _, err := f.app.Pause(ctx, f.gameID, 400); err != nil {
			t.Fatalf("Pause() error: %v", err)
		}
		if _, err := f.app.Pause(ctx, f.gameID, 300); !errors.Is(err, ErrNotRunning) {
			t.Errorf("second Pause() = %v, want ErrNotRunning", err)
		}
	})

	t.Run("countdown cannot increase", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.app.Start(ctx, f.gameID)
		f.app.Pause(ctx, f.gameID, 400)
		f.app.Start(ctx, f.gameID)
		if _, err := f.app.Pause(ctx, f.gameID, 450); !errors.Is(err, ErrInvalidClockValue) {
			t.Errorf("Pause(450) after 400 = %v, want ErrInvalidClockValue", err)
		}
	})

	t.Run("negative value", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.app.Start(ctx, f.gameID)
		if _, err := f.app.Pause(ctx, f.gameID, -1); !errors.Is(err, ErrInvalidClockValue) {
			t.Errorf("Pause(-1) = %v, want ErrInvalidClockValue", err)
		}
	})
}

func TestStartResumesFromPause(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.app.Start(ctx, f.gameID)
	f.app.Pause(ctx, f.gameID, 420)

	session, err := f.app.Start(ctx, f.gameID)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if session.SecondsRemaining != 420 || session.Period != 1 {
		t.Errorf("resumed at %d period %d, want 420 period 1", session.SecondsRemaining, session.Period)
	}
	// Resume re-snapshots every on-court entry point at the resume value.
	if got := f.statuses.snapshots[len(f.statuses.snapshots)-1]; got != 420 {
		t.Errorf("last snapshot = %d, want 420", got)
	}
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.app.Start(ctx, f.gameID)

	if _, err := f.app.Reset(ctx, f.gameID); !errors.Is(err, ErrStillRunning) {
		t.Fatalf("Reset() while running = %v, want ErrStillRunning", err)
	}

	f.app.Pause(ctx, f.gameID, 137)
	session, err := f.app.Reset(ctx, f.gameID)
	if err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	if session.Status != models.ClockStatusPaused || session.SecondsRemaining != 600 || session.Period != 1 {
		t.Errorf("got %s at %d period %d, want PAUSED at 600 period 1", session.Status, session.SecondsRemaining, session.Period)
	}
}

func TestAdvancePeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.app.AdvancePeriod(ctx, f.gameID); !errors.Is(err, ErrNotAtZero) {
		t.Fatalf("AdvancePeriod() on fresh game = %v, want ErrNotAtZero", err)
	}

	f.app.Start(ctx, f.gameID)
	if _, err := f.app.AdvancePeriod(ctx, f.gameID); !errors.Is(err, ErrStillRunning) {
		t.Fatalf("AdvancePeriod() while running = %v, want ErrStillRunning", err)
	}

	f.app.Pause(ctx, f.gameID, 30)
	if _, err := f.app.AdvancePeriod(ctx, f.gameID); !errors.Is(err, ErrNotAtZero) {
		t.Fatalf("AdvancePeriod() at 30 = %v, want ErrNotAtZero", err)
	}

	f.app.Start(ctx, f.gameID)
	f.app.Pause(ctx, f.gameID, 0)
	session, err := f.app.AdvancePeriod(ctx, f.gameID)
	if err != nil {
		t.Fatalf("AdvancePeriod() error: %v", err)
	}
	if session.Period != 2 || session.SecondsRemaining != 600 || session.Status != models.ClockStatusPaused {
		t.Errorf("got %s at %d period %d, want PAUSED at 600 period 2", session.Status, session.SecondsRemaining, session.Period)
	}
	// New period resets entry points to the full countdown.
	if got := f.statuses.snapshots[len(f.statuses.snapshots)-1]; got != 600 {
		t.Errorf("last snapshot = %d, want 600", got)
	}
}

func TestAppendRejectsBackwardsCapture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A session captured ahead of the server clock makes any new capture
	// out of order.
	future := f.clk.Now().Add(time.Hour)
	f.sessions.latest = &models.ClockSession{
		ID:               uuid.New(),
		GameID:           f.gameID,
		Status:           models.ClockStatusPaused,
		SecondsRemaining: 400,
		Period:           1,
		CapturedAt:       future,
	}

	if _, err := f.app.Start(ctx, f.gameID); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("Start() = %v, want ErrOutOfOrder", err)
	}
}
