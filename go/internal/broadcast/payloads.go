package broadcast

import (
	"time"

	"github.com/mcdev12/courtside/go/internal/models"
)

// Event payload types shared between the publisher and the viewer gateway.

// EventType names a broadcast payload kind.
type EventType string

const (
	TypeClockStarted     EventType = "ClockStarted"
	TypeClockPaused      EventType = "ClockPaused"
	TypeClockReset       EventType = "ClockReset"
	TypePeriodAdvanced   EventType = "PeriodAdvanced"
	TypeEventRecorded    EventType = "EventRecorded"
	TypeSubstitutionMade EventType = "SubstitutionMade"
	TypeStartersSet      EventType = "StartersSet"
)

// ClockPayload is the payload for clock transitions (started, paused, reset,
// period advanced).
type ClockPayload struct {
	GameID           string    `json:"game_id"`
	Status           string    `json:"status"`
	SecondsRemaining int       `json:"seconds_remaining"`
	Period           int       `json:"period"`
	CapturedAt       time.Time `json:"captured_at"`
}

// NewClockPayload builds a ClockPayload from a session row.
func NewClockPayload(s *models.ClockSession) ClockPayload {
	return ClockPayload{
		GameID:           s.GameID.String(),
		Status:           string(s.Status),
		SecondsRemaining: s.SecondsRemaining,
		Period:           s.Period,
		CapturedAt:       s.CapturedAt,
	}
}

// EventRecordedPayload is the payload for a newly applied ledger event.
type EventRecordedPayload struct {
	GameID       string    `json:"game_id"`
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	TeamSide     string    `json:"team_side"`
	PlayerID     string    `json:"player_id,omitempty"`
	Period       int       `json:"period"`
	ClockSeconds int       `json:"clock_seconds"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// NewEventRecordedPayload builds an EventRecordedPayload from a ledger row.
func NewEventRecordedPayload(e *models.GameEvent) EventRecordedPayload {
	p := EventRecordedPayload{
		GameID:       e.GameID.String(),
		EventID:      e.ID.String(),
		EventType:    string(e.Type),
		TeamSide:     string(e.TeamSide),
		Period:       e.Period,
		ClockSeconds: e.ClockSeconds,
		RecordedAt:   e.CreatedAt,
	}
	if e.PlayerID != nil {
		p.PlayerID = e.PlayerID.String()
	}
	return p
}

// SubstitutionPayload is the payload for a completed substitution.
type SubstitutionPayload struct {
	GameID       string `json:"game_id"`
	PlayerOutID  string `json:"player_out_id"`
	PlayerInID   string `json:"player_in_id"`
	Period       int    `json:"period"`
	ClockSeconds int    `json:"clock_seconds"`
}
