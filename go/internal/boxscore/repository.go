package boxscore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/models"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
)

// Repository implements box-score projection data access. The projections
// are disposable: the aggregator replaces them wholesale on every recompute.
type Repository struct{}

// NewRepository creates a new box-score repository.
func NewRepository() *Repository {
	return &Repository{}
}

// ReplaceTeams swaps the team aggregates for a game.
func (r *Repository) ReplaceTeams(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, teams []models.BoxScoreTeam) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM box_score_teams WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("failed to clear team box scores: %w", err)
	}
	for _, t := range teams {
		_, err := db.ExecContext(ctx, `
			INSERT INTO box_score_teams
				(game_id, team_side, fg2m, fg2a, fg3m, fg3a, ftm, fta, points,
				 oreb, dreb, assists, steals, blocks, turnovers, fouls)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			t.GameID, t.TeamSide, t.FG2M, t.FG2A, t.FG3M, t.FG3A, t.FTM, t.FTA, t.Points,
			t.OffReb, t.DefReb, t.Assists, t.Steals, t.Blocks, t.Turnovers, t.Fouls)
		if err != nil {
			return fmt.Errorf("failed to insert team box score: %w", err)
		}
	}
	return nil
}

// ReplacePlayers swaps the player aggregates for a game.
func (r *Repository) ReplacePlayers(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, players []models.BoxScorePlayer) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM box_score_players WHERE game_id = $1`, gameID); err != nil {
		return fmt.Errorf("failed to clear player box scores: %w", err)
	}
	for _, p := range players {
		_, err := db.ExecContext(ctx, `
			INSERT INTO box_score_players
				(game_id, player_id, team_side, fg2m, fg2a, fg3m, fg3a, ftm, fta, points,
				 oreb, dreb, assists, steals, blocks, turnovers, fouls)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			p.GameID, p.PlayerID, p.TeamSide, p.FG2M, p.FG2A, p.FG3M, p.FG3A, p.FTM, p.FTA, p.Points,
			p.OffReb, p.DefReb, p.Assists, p.Steals, p.Blocks, p.Turnovers, p.Fouls)
		if err != nil {
			return fmt.Errorf("failed to insert player box score: %w", err)
		}
	}
	return nil
}

// ListTeams returns the stored team aggregates (home first).
func (r *Repository) ListTeams(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.BoxScoreTeam, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT game_id, team_side, fg2m, fg2a, fg3m, fg3a, ftm, fta, points,
		       oreb, dreb, assists, steals, blocks, turnovers, fouls
		FROM box_score_teams WHERE game_id = $1 ORDER BY team_side = 'AWAY'`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team box scores: %w", err)
	}
	defer rows.Close()

	var teams []models.BoxScoreTeam
	for rows.Next() {
		var t models.BoxScoreTeam
		if err := rows.Scan(&t.GameID, &t.TeamSide, &t.FG2M, &t.FG2A, &t.FG3M, &t.FG3A,
			&t.FTM, &t.FTA, &t.Points, &t.OffReb, &t.DefReb, &t.Assists, &t.Steals,
			&t.Blocks, &t.Turnovers, &t.Fouls); err != nil {
			return nil, fmt.Errorf("failed to scan team box score: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ListPlayers returns the stored player aggregates sorted by player id.
func (r *Repository) ListPlayers(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID) ([]models.BoxScorePlayer, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT game_id, player_id, team_side, fg2m, fg2a, fg3m, fg3a, ftm, fta, points,
		       oreb, dreb, assists, steals, blocks, turnovers, fouls
		FROM box_score_players WHERE game_id = $1 ORDER BY player_id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player box scores: %w", err)
	}
	defer rows.Close()

	var players []models.BoxScorePlayer
	for rows.Next() {
		var p models.BoxScorePlayer
		if err := rows.Scan(&p.GameID, &p.PlayerID, &p.TeamSide, &p.FG2M, &p.FG2A, &p.FG3M, &p.FG3A,
			&p.FTM, &p.FTA, &p.Points, &p.OffReb, &p.DefReb, &p.Assists, &p.Steals,
			&p.Blocks, &p.Turnovers, &p.Fouls); err != nil {
			return nil, fmt.Errorf("failed to scan player box score: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
