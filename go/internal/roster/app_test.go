package roster

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

type fakeRepo struct {
	game    *models.Game
	players map[uuid.UUID]*models.Player
	created []models.PlayerGameStatus
}

func (f *fakeRepo) GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error) {
	return f.game, nil
}

func (f *fakeRepo) GetPlayer(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakeRepo) CountStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (int, error) {
	return len(f.created), nil
}

func (f *fakeRepo) CreateStatus(ctx context.Context, db sqlutil.DBTX, s models.PlayerGameStatus) error {
	f.created = append(f.created, s)
	return nil
}

func (f *fakeRepo) ListStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.PlayerGameStatus, error) {
	return f.created, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fixture struct {
	app    *App
	repo   *fakeRepo
	gameID uuid.UUID
	home   []uuid.UUID
	away   []uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gameID := uuid.New()
	homeTeamID := uuid.New()
	awayTeamID := uuid.New()

	repo := &fakeRepo{
		game: &models.Game{
			ID:                  gameID,
			HomeTeamID:          homeTeamID,
			AwayTeamID:          awayTeamID,
			PeriodLengthSeconds: 600,
		},
		players: make(map[uuid.UUID]*models.Player),
	}

	var home, away []uuid.UUID
	for i := 0; i < 5; i++ {
		h := uuid.New()
		repo.players[h] = &models.Player{ID: h, TeamID: homeTeamID}
		home = append(home, h)

		a := uuid.New()
		repo.players[a] = &models.Player{ID: a, TeamID: awayTeamID}
		away = append(away, a)
	}

	return &fixture{
		app:    NewApp(repo, fakeTxRunner{}, nil),
		repo:   repo,
		gameID: gameID,
		home:   home,
		away:   away,
	}
}

func TestSetStarters(t *testing.T) {
	f := newFixture(t)

	created, err := f.app.SetStarters(context.Background(), f.gameID, f.home, f.away)
	if err != nil {
		t.Fatalf("SetStarters() error: %v", err)
	}
	if len(created) != 10 {
		t.Fatalf("created %d statuses, want 10", len(created))
	}

	sides := map[models.TeamSide]int{}
	for _, s := range created {
		sides[s.TeamSide]++
		if !s.IsOnCourt {
			t.Errorf("starter %s not on court", s.PlayerID)
		}
		if s.LastSubInSeconds == nil || *s.LastSubInSeconds != 600 {
			t.Errorf("starter %s entry point = %v, want 600", s.PlayerID, s.LastSubInSeconds)
		}
		if s.TotalSecondsPlayed != 0 {
			t.Errorf("starter %s has pre-credited minutes", s.PlayerID)
		}
	}
	if sides[models.TeamSideHome] != 5 || sides[models.TeamSideAway] != 5 {
		t.Errorf("side split = %v, want 5/5", sides)
	}
}

func TestSetStartersRejections(t *testing.T) {
	t.Run("wrong count", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.app.SetStarters(context.Background(), f.gameID, f.home[:4], f.away); !errors.Is(err, ErrWrongStarterCount) {
			t.Errorf("got %v, want ErrWrongStarterCount", err)
		}
	})

	t.Run("duplicate starter", func(t *testing.T) {
		f := newFixture(t)
		home := append([]uuid.UUID{}, f.home...)
		home[4] = home[0]
		if _, err := f.app.SetStarters(context.Background(), f.gameID, home, f.away); !errors.Is(err, ErrWrongStarterCount) {
			t.Errorf("got %v, want ErrWrongStarterCount", err)
		}
	})

	t.Run("player on wrong side", func(t *testing.T) {
		f := newFixture(t)
		home := append([]uuid.UUID{}, f.home...)
		home[0] = f.away[0]
		away := append([]uuid.UUID{}, f.away...)
		away[0] = f.home[0]
		if _, err := f.app.SetStarters(context.Background(), f.gameID, home, away); !errors.Is(err, ErrWrongSide) {
			t.Errorf("got %v, want ErrWrongSide", err)
		}
	})

	t.Run("player not in game", func(t *testing.T) {
		f := newFixture(t)
		outsider := uuid.New()
		f.repo.players[outsider] = &models.Player{ID: outsider, TeamID: uuid.New()}
		home := append([]uuid.UUID{}, f.home...)
		home[0] = outsider
		if _, err := f.app.SetStarters(context.Background(), f.gameID, home, f.away); !errors.Is(err, ErrPlayerNotInGame) {
			t.Errorf("got %v, want ErrPlayerNotInGame", err)
		}
	})

	t.Run("already set", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.app.SetStarters(context.Background(), f.gameID, f.home, f.away); err != nil {
			t.Fatalf("SetStarters() error: %v", err)
		}
		if _, err := f.app.SetStarters(context.Background(), f.gameID, f.home, f.away); !errors.Is(err, ErrStartersAlreadySet) {
			t.Errorf("got %v, want ErrStartersAlreadySet", err)
		}
	})
}
