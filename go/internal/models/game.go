package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamSide identifies which side of a game a team, player or event belongs to.
type TeamSide string

const (
	TeamSideHome TeamSide = "HOME"
	TeamSideAway TeamSide = "AWAY"
)

// Team represents a club that fields players.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Player represents a rostered player.
type Player struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Game represents a single tracked game between two teams.
type Game struct {
	ID                  uuid.UUID `json:"id"`
	HomeTeamID          uuid.UUID `json:"home_team_id"`
	AwayTeamID          uuid.UUID `json:"away_team_id"`
	PeriodLengthSeconds int       `json:"period_length_seconds"`
	CreatedAt           time.Time `json:"created_at"`
}

// SideOf reports which side of the game a team plays on, or false when the
// team is not part of the game.
func (g Game) SideOf(teamID uuid.UUID) (TeamSide, bool) {
	switch teamID {
	case g.HomeTeamID:
		return TeamSideHome, true
	case g.AwayTeamID:
		return TeamSideAway, true
	default:
		return "", false
	}
}
