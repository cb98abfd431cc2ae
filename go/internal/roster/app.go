package roster

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// StatusRepository defines what the app layer needs from the repository.
type StatusRepository interface {
	GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error)
	GetPlayer(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Player, error)
	CountStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (int, error)
	CreateStatus(ctx context.Context, db sqlutil.DBTX, s models.PlayerGameStatus) error
	ListStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.PlayerGameStatus, error)
}

// TxRunner defines what the app layer needs to scope work to a transaction
// serialized per game.
type TxRunner interface {
	RunLocked(ctx context.Context, gameID uuid.UUID, fn func(tx *sql.Tx) error) error
}

// App handles roster business logic.
type App struct {
	repo StatusRepository
	txr  TxRunner
	db   sqlutil.DBTX
}

// NewApp creates a new roster App.
func NewApp(repo StatusRepository, txr TxRunner, db sqlutil.DBTX) *App {
	return &App{
		repo: repo,
		txr:  txr,
		db:   db,
	}
}

// SetStarters performs the one-time initialization of player-game-status rows
// for a game: five on-court starters per side, everyone at the full-period
// countdown entry point. Rejected when statuses already exist.
func (a *App) SetStarters(ctx context.Context, gameID uuid.UUID, homeIDs, awayIDs []uuid.UUID) ([]models.PlayerGameStatus, error) {
	if len(homeIDs) != 5 || len(awayIDs) != 5 {
		return nil, ErrWrongStarterCount
	}
	seen := make(map[uuid.UUID]bool, 10)
	for _, id := range append(append([]uuid.UUID{}, homeIDs...), awayIDs...) {
		if seen[id] {
			return nil, fmt.Errorf("duplicate starter %s: %w", id, ErrWrongStarterCount)
		}
		seen[id] = true
	}

	var created []models.PlayerGameStatus
	err := a.txr.RunLocked(ctx, gameID, func(tx *sql.Tx) error {
		game, err := a.repo.GetGame(ctx, tx, gameID)
		if err != nil {
			return err
		}

		n, err := a.repo.CountStatuses(ctx, tx, gameID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrStartersAlreadySet
		}

		entry := game.PeriodLengthSeconds
		for side, ids := range map[models.TeamSide][]uuid.UUID{
			models.TeamSideHome: homeIDs,
			models.TeamSideAway: awayIDs,
		} {
			for _, playerID := range ids {
				player, err := a.repo.GetPlayer(ctx, tx, playerID)
				if err != nil {
					return err
				}
				actual, ok := game.SideOf(player.TeamID)
				if !ok {
					return fmt.Errorf("player %s: %w", playerID, ErrPlayerNotInGame)
				}
				if actual != side {
					return fmt.Errorf("player %s: %w", playerID, ErrWrongSide)
				}

				subIn := entry
				status := models.PlayerGameStatus{
					GameID:           gameID,
					PlayerID:         playerID,
					TeamSide:         side,
					IsOnCourt:        true,
					LastSubInSeconds: &subIn,
				}
				if err := a.repo.CreateStatus(ctx, tx, status); err != nil {
					return err
				}
				created = append(created, status)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", gameID.String()).
		Int("statuses", len(created)).
		Msg("starters set")
	return created, nil
}

// ListStatuses returns every player-game-status row for a game, read outside
// any transaction.
func (a *App) ListStatuses(ctx context.Context, gameID uuid.UUID) ([]models.PlayerGameStatus, error) {
	return a.repo.ListStatuses(ctx, a.db, gameID)
}

// GetGame returns the game row, read outside any transaction.
func (a *App) GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	return a.repo.GetGame(ctx, a.db, gameID)
}
