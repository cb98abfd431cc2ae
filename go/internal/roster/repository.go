package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

// Repository implements game, player and player-game-status data access.
// Methods take a sqlutil.DBTX so the caller decides the transaction scope.
type Repository struct{}

// NewRepository creates a new roster repository.
func NewRepository() *Repository {
	return &Repository{}
}

// GetGame retrieves a game by ID.
func (r *Repository) GetGame(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Game, error) {
	var g models.Game
	err := db.QueryRowContext(ctx, `
		SELECT id, home_team_id, away_team_id, period_length_seconds, created_at
		FROM games WHERE id = $1`, id).
		Scan(&g.ID, &g.HomeTeamID, &g.AwayTeamID, &g.PeriodLengthSeconds, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &g, nil
}

// GetPlayer retrieves a player by ID.
func (r *Repository) GetPlayer(ctx context.Context, db sqlutil.DBTX, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := db.QueryRowContext(ctx, `
		SELECT id, team_id, name, created_at
		FROM players WHERE id = $1`, id).
		Scan(&p.ID, &p.TeamID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// CountStatuses returns the number of player-game-status rows for a game.
func (r *Repository) CountStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM player_game_statuses WHERE game_id = $1`, gameID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count statuses: %w", err)
	}
	return n, nil
}

// CreateStatus inserts one player-game-status row.
func (r *Repository) CreateStatus(ctx context.Context, db sqlutil.DBTX, s models.PlayerGameStatus) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO player_game_statuses
			(game_id, player_id, team_side, is_on_court, last_sub_in_seconds, total_seconds_played)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.GameID, s.PlayerID, s.TeamSide, s.IsOnCourt,
		sqlutil.ToSqlInt32(s.LastSubInSeconds), s.TotalSecondsPlayed)
	if err != nil {
		return fmt.Errorf("failed to create player game status: %w", err)
	}
	return nil
}

// GetStatus retrieves the status row for one (game, player).
func (r *Repository) GetStatus(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID) (*models.PlayerGameStatus, error) {
	row := db.QueryRowContext(ctx, `
		SELECT game_id, player_id, team_side, is_on_court, last_sub_in_seconds, total_seconds_played
		FROM player_game_statuses WHERE game_id = $1 AND player_id = $2`, gameID, playerID)
	s, err := scanStatus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player game status: %w", err)
	}
	return s, nil
}

// ListStatuses retrieves all status rows for a game.
func (r *Repository) ListStatuses(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.PlayerGameStatus, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT game_id, player_id, team_side, is_on_court, last_sub_in_seconds, total_seconds_played
		FROM player_game_statuses WHERE game_id = $1 ORDER BY player_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.PlayerGameStatus
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, *s)
	}
	return statuses, rows.Err()
}

// SetOnCourt flips a player onto the court and records the countdown value at
// which they entered.
func (r *Repository) SetOnCourt(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID, subInSeconds int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE player_game_statuses
		SET is_on_court = TRUE, last_sub_in_seconds = $3
		WHERE game_id = $1 AND player_id = $2`, gameID, playerID, subInSeconds)
	if err != nil {
		return fmt.Errorf("failed to set player on court: %w", err)
	}
	return nil
}

// SetBenched flips a player off the court and clears their entry point.
func (r *Repository) SetBenched(ctx context.Context, db sqlutil.DBTX, gameID, playerID uuid.UUID) error {
	_, err := db.ExecContext(ctx, `
		UPDATE player_game_statuses
		SET is_on_court = FALSE, last_sub_in_seconds = NULL
		WHERE game_id = $1 AND player_id = $2`, gameID, playerID)
	if err != nil {
		return fmt.Errorf("failed to bench player: %w", err)
	}
	return nil
}

// SnapshotSubIn stamps every on-court player's entry point with the given
// countdown value. Called when the clock transitions to RUNNING and when a
// new period resets the countdown frame of reference.
func (r *Repository) SnapshotSubIn(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, seconds int) error {
	_, err := db.ExecContext(ctx, `
		UPDATE player_game_statuses
		SET last_sub_in_seconds = $2
		WHERE game_id = $1 AND is_on_court`, gameID, seconds)
	if err != nil {
		return fmt.Errorf("failed to snapshot sub-in seconds: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStatus(row scanner) (*models.PlayerGameStatus, error) {
	var s models.PlayerGameStatus
	var lastSubIn sql.NullInt32
	if err := row.Scan(&s.GameID, &s.PlayerID, &s.TeamSide, &s.IsOnCourt, &lastSubIn, &s.TotalSecondsPlayed); err != nil {
		return nil, err
	}
	s.LastSubInSeconds = sqlutil.FromSqlInt32(lastSubIn)
	return &s, nil
}
