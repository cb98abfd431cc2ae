package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventKind defines the closed set of recordable game actions. Unknown kinds
// are rejected at the validation boundary rather than passed through.
type EventKind string

const (
	EventShotMade2   EventKind = "SHOT_MADE_2"
	EventShotMissed2 EventKind = "SHOT_MISSED_2"
	EventShotMade3   EventKind = "SHOT_MADE_3"
	EventShotMissed3 EventKind = "SHOT_MISSED_3"
	EventFTMade      EventKind = "FT_MADE"
	EventFTMissed    EventKind = "FT_MISSED"
	EventReboundOff  EventKind = "REBOUND_OFF"
	EventReboundDef  EventKind = "REBOUND_DEF"
	EventAssist      EventKind = "ASSIST"
	EventSteal       EventKind = "STEAL"
	EventBlock       EventKind = "BLOCK"
	EventTurnover    EventKind = "TURNOVER"
	EventFoul        EventKind = "FOUL"
	EventSubIn       EventKind = "SUB_IN"
	EventSubOut      EventKind = "SUB_OUT"
)

// eventKinds maps each known kind to whether a player id is required.
// Turnovers and rebounds may be team-only (shot-clock violation, team board).
var eventKinds = map[EventKind]bool{
	EventShotMade2:   true,
	EventShotMissed2: true,
	EventShotMade3:   true,
	EventShotMissed3: true,
	EventFTMade:      true,
	EventFTMissed:    true,
	EventReboundOff:  false,
	EventReboundDef:  false,
	EventAssist:      true,
	EventSteal:       true,
	EventBlock:       true,
	EventTurnover:    false,
	EventFoul:        true,
	EventSubIn:       true,
	EventSubOut:      true,
}

// Known reports whether k is one of the recognized event kinds.
func (k EventKind) Known() bool {
	_, ok := eventKinds[k]
	return ok
}

// RequiresPlayer reports whether events of this kind must carry a player id.
func (k EventKind) RequiresPlayer() bool {
	return eventKinds[k]
}

// ShotDetail carries optional shot metadata.
type ShotDetail struct {
	AssistedBy *uuid.UUID `json:"assisted_by,omitempty"`
}

// FoulDetail carries the foul flavor (personal, technical, flagrant).
type FoulDetail struct {
	Flavor string `json:"flavor"`
}

// GameEvent is one immutable row of the event ledger. The idempotency key is
// client-generated and unique per game, so a replayed write is a no-op.
type GameEvent struct {
	ID             uuid.UUID       `json:"id"`
	GameID         uuid.UUID       `json:"game_id"`
	Type           EventKind       `json:"type"`
	TeamSide       TeamSide        `json:"team_side"`
	PlayerID       *uuid.UUID      `json:"player_id,omitempty"`
	Period         int             `json:"period"`
	ClockSeconds   int             `json:"clock_seconds"`
	Detail         json.RawMessage `json:"detail,omitempty"`
	IdempotencyKey string          `json:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at"`
}
