package models

import (
	"time"

	"github.com/google/uuid"
)

// ClockStatus defines the state of the game clock captured by a session.
type ClockStatus string

const (
	ClockStatusRunning ClockStatus = "RUNNING"
	ClockStatusPaused  ClockStatus = "PAUSED"
)

// ClockSession is an immutable snapshot of clock state. The sessions for a
// game form an append-only ledger totally ordered by CapturedAt; the latest
// session defines the current clock state.
type ClockSession struct {
	ID               uuid.UUID   `json:"id"`
	GameID           uuid.UUID   `json:"game_id"`
	Status           ClockStatus `json:"status"`
	SecondsRemaining int         `json:"seconds_remaining"`
	Period           int         `json:"period"`
	CapturedAt       time.Time   `json:"captured_at"`
}

// PlayerGameStatus tracks one player's court presence and accumulated playing
// time within a game. LastSubInSeconds is non-nil iff the player is on court;
// it holds the countdown value at which the player entered the court or the
// clock last started while they were on it.
type PlayerGameStatus struct {
	GameID             uuid.UUID `json:"game_id"`
	PlayerID           uuid.UUID `json:"player_id"`
	TeamSide           TeamSide  `json:"team_side"`
	IsOnCourt          bool      `json:"is_on_court"`
	LastSubInSeconds   *int      `json:"last_sub_in_seconds,omitempty"`
	TotalSecondsPlayed int       `json:"total_seconds_played"`
}
