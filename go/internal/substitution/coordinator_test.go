package substitution

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
	latest *models.ClockSession
}

func (f *fakeSessions) Latest(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (*models.ClockSession, error) {
	return f.latest, nil
}

type fakeStatuses struct {
	game     *models.Game
	players  map[uuid.UUID]*models.Player
	statuses map[uuid.UUID]*models.PlayerGameStatus

	benched []uuid.UUID
	onCourt map[uuid.UUID]int
}

func (f *fakeStatuses) GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error) {
	return f.game, nil
}

func (f *fakeStatuses) GetPlayer(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Player, error) {
	return f.players[id], nil
}

func (f *fakeStatuses) GetStatus(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID) (*models.PlayerGameStatus, error) {
	return f.statuses[playerID], nil
}

func (f *fakeStatuses) SetOnCourt(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID, subInSeconds int) error {
	f.onCourt[playerID] = subInSeconds
	return nil
}

func (f *fakeStatuses) SetBenched(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID) error {
	f.benched = append(f.benched, playerID)
	return nil
}

type fakeSettler struct {
	settledAt []int
}

func (f *fakeSettler) Settle(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, currentSeconds int) error {
	f.settledAt = append(f.settledAt, currentSeconds)
	return nil
}

type fakeEvents struct {
	inserted []models.GameEvent
}

func (f *fakeEvents) Insert(ctx context.Context, db sqlutil.DBTX, e models.GameEvent) (bool, error) {
	f.inserted = append(f.inserted, e)
	return true, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fixture struct {
	coord    *Coordinator
	sessions *fakeSessions
	statuses *fakeStatuses
	settler  *fakeSettler
	events   *fakeEvents
	clk      *clockwork.FakeClock

	gameID     uuid.UUID
	homeTeamID uuid.UUID
	awayTeamID uuid.UUID
	starter    uuid.UUID
	bench      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gameID := uuid.New()
	homeTeamID := uuid.New()
	awayTeamID := uuid.New()
	starter := uuid.New()
	bench := uuid.New()

	subIn := 600
	statuses := &fakeStatuses{
		game: &models.Game{
			ID:                  gameID,
			HomeTeamID:          homeTeamID,
			AwayTeamID:          awayTeamID,
			PeriodLengthSeconds: 600,
		},
		players: map[uuid.UUID]*models.Player{
			starter: {ID: starter, TeamID: homeTeamID},
			bench:   {ID: bench, TeamID: homeTeamID},
		},
		statuses: map[uuid.UUID]*models.PlayerGameStatus{
			starter: {GameID: gameID, PlayerID: starter, TeamSide: models.TeamSideHome, IsOnCourt: true, LastSubInSeconds: &subIn},
			bench:   {GameID: gameID, PlayerID: bench, TeamSide: models.TeamSideHome},
		},
		onCourt: make(map[uuid.UUID]int),
	}
	sessions := &fakeSessions{}
	settler := &fakeSettler{}
	events := &fakeEvents{}
	clk := clockwork.NewFakeClockAt(time.Date(2025, 11, 2, 19, 0, 0, 0, time.UTC))

	return &fixture{
		coord:      NewCoordinator(sessions, statuses, settler, events, fakeTxRunner{}, clk),
		sessions:   sessions,
		statuses:   statuses,
		settler:    settler,
		events:     events,
		clk:        clk,
		gameID:     gameID,
		homeTeamID: homeTeamID,
		awayTeamID: awayTeamID,
		starter:    starter,
		bench:      bench,
	}
}

func (f *fixture) setRunning(secondsRemaining int, capturedAgo time.Duration) {
	f.sessions.latest = &models.ClockSession{
		ID:               uuid.New(),
		GameID:           f.gameID,
		Status:           models.ClockStatusRunning,
		SecondsRemaining: secondsRemaining,
		Period:           1,
		CapturedAt:       f.clk.Now().Add(-capturedAgo),
	}
}

func TestSubstituteWhileRunning(t *testing.T) {
	f := newFixture(t)
	// Clock started at 600; 150 wall seconds have passed, so the live
	// countdown reads 450.
	f.setRunning(600, 150*time.Second)

	result, err := f.coord.Substitute(context.Background(), f.gameID, f.starter, f.bench, 1)
	if err != nil {
		t.Fatalf("Substitute() error: %v", err)
	}

	// Elapsed minutes are settled at the live clock before the swap, so
	// the outgoing player is credited exactly up to the swap instant and
	// the incoming player's segment starts there. The two segments are
	// disjoint.
	if len(f.settler.settledAt) != 1 || f.settler.settledAt[0] != 450 {
		t.Errorf("settled at %v, want [450]", f.settler.settledAt)
	}
	if got := f.statuses.onCourt[f.bench]; got != 450 {
		t.Errorf("incoming entry point = %d, want 450", got)
	}
	if len(f.statuses.benched) != 1 || f.statuses.benched[0] != f.starter {
		t.Errorf("benched = %v, want [%s]", f.statuses.benched, f.starter)
	}

	if result.SubOut.Type != models.EventSubOut || *result.SubOut.PlayerID != f.starter {
		t.Errorf("SubOut = %+v", result.SubOut)
	}
	if result.SubIn.Type != models.EventSubIn || *result.SubIn.PlayerID != f.bench {
		t.Errorf("SubIn = %+v", result.SubIn)
	}
	if result.SubOut.ClockSeconds != 450 || result.SubIn.ClockSeconds != 450 {
		t.Errorf("marker clock = %d/%d, want 450/450", result.SubOut.ClockSeconds, result.SubIn.ClockSeconds)
	}
	if result.SubOut.IdempotencyKey == result.SubIn.IdempotencyKey {
		t.Error("markers share an idempotency key")
	}
	if len(f.events.inserted) != 2 {
		t.Errorf("inserted %d events, want 2", len(f.events.inserted))
	}
}

func TestSubstituteWhilePaused(t *testing.T) {
	f := newFixture(t)
	f.sessions.latest = &models.ClockSession{
		ID:               uuid.New(),
		GameID:           f.gameID,
		Status:           models.ClockStatusPaused,
		SecondsRemaining: 420,
		Period:           1,
		CapturedAt:       f.clk.Now().Add(-time.Minute),
	}

	_, err := f.coord.Substitute(context.Background(), f.gameID, f.starter, f.bench, 1)
	if err != nil {
		t.Fatalf("Substitute() error: %v", err)
	}

	// No segment elapses while paused; nothing to settle.
	if len(f.settler.settledAt) != 0 {
		t.Errorf("settled at %v, want none", f.settler.settledAt)
	}
	if got := f.statuses.onCourt[f.bench]; got != 420 {
		t.Errorf("incoming entry point = %d, want 420", got)
	}
}

func TestSubstituteRejections(t *testing.T) {
	t.Run("same player", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.coord.Substitute(context.Background(), f.gameID, f.starter, f.starter, 1); !errors.Is(err, ErrSamePlayer) {
			t.Errorf("got %v, want ErrSamePlayer", err)
		}
	})

	t.Run("outgoing not on court", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.coord.Substitute(context.Background(), f.gameID, f.bench, f.starter, 1); !errors.Is(err, ErrNotOnCourt) {
			t.Errorf("got %v, want ErrNotOnCourt", err)
		}
	})

	t.Run("incoming already on court", func(t *testing.T) {
		f := newFixture(t)
		subIn := 600
		f.statuses.statuses[f.bench].IsOnCourt = true
		f.statuses.statuses[f.bench].LastSubInSeconds = &subIn
		if _, err := f.coord.Substitute(context.Background(), f.gameID, f.starter, f.bench, 1); !errors.Is(err, ErrAlreadyOnCourt) {
			t.Errorf("got %v, want ErrAlreadyOnCourt", err)
		}
	})

	t.Run("cross team", func(t *testing.T) {
		f := newFixture(t)
		f.statuses.players[f.bench].TeamID = f.awayTeamID
		if _, err := f.coord.Substitute(context.Background(), f.gameID, f.starter, f.bench, 1); !errors.Is(err, ErrCrossTeam) {
			t.Errorf("got %v, want ErrCrossTeam", err)
		}
	})
}

func TestSubstituteRunningClockClampsAtZero(t *testing.T) {
	f := newFixture(t)
	// Clock says 30 left but 90 wall seconds have passed; the live value
	// clamps at zero rather than going negative.
	f.setRunning(30, 90*time.Second)

	result, err := f.coord.Substitute(context.Background(), f.gameID, f.starter, f.bench, 1)
	if err != nil {
		t.Fatalf("Substitute() error: %v", err)
	}
	if result.SubIn.ClockSeconds != 0 {
		t.Errorf("marker clock = %d, want 0", result.SubIn.ClockSeconds)
	}
	if f.settler.settledAt[0] != 0 {
		t.Errorf("settled at %d, want 0", f.settler.settledAt[0])
	}
}
