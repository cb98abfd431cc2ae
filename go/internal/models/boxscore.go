package models

import "github.com/google/uuid"

// StatLine holds the raw counters accumulated from the event ledger. It is
// shared by team and player box-score rows.
type StatLine struct {
	FG2M      int `json:"fg2m"`
	FG2A      int `json:"fg2a"`
	FG3M      int `json:"fg3m"`
	FG3A      int `json:"fg3a"`
	FTM       int `json:"ftm"`
	FTA       int `json:"fta"`
	Points    int `json:"points"`
	OffReb    int `json:"oreb"`
	DefReb    int `json:"dreb"`
	Assists   int `json:"assists"`
	Steals    int `json:"steals"`
	Blocks    int `json:"blocks"`
	Turnovers int `json:"turnovers"`
	Fouls     int `json:"fouls"`
}

// BoxScoreTeam is the derived team aggregate. Disposable: always recomputable
// by replaying the event ledger in insertion order.
type BoxScoreTeam struct {
	GameID   uuid.UUID `json:"game_id"`
	TeamSide TeamSide  `json:"team_side"`
	StatLine
}

// BoxScorePlayer is the derived per-player aggregate.
type BoxScorePlayer struct {
	GameID   uuid.UUID `json:"game_id"`
	PlayerID uuid.UUID `json:"player_id"`
	TeamSide TeamSide  `json:"team_side"`
	StatLine
}
