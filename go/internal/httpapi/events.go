package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mcdev12/courtside/go/internal/broadcast"
	"github.com/mcdev12/courtside/go/internal/gameevents"
	"github.com/mcdev12/courtside/go/internal/models"
)

type recordEventResponse struct {
	Event   *models.GameEvent `json:"event"`
	Applied bool              `json:"applied"`
}

type substitutionRequest struct {
	PlayerOutID uuid.UUID `json:"player_out_id"`
	PlayerInID  uuid.UUID `json:"player_in_id"`
	Period      int       `json:"period"`
}

type setStartersRequest struct {
	HomePlayerIDs []uuid.UUID `json:"home_player_ids"`
	AwayPlayerIDs []uuid.UUID `json:"away_player_ids"`
}

// RecordEvent handles POST /games/{id}/events. Replayed idempotency keys
// return the stored event with applied=false rather than an error, so
// offline clients can retry blindly.
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	var req gameevents.RecordEventRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	event, applied, err := h.events.RecordEvent(r.Context(), gameID, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if applied {
		h.publisher.Publish(gameID, broadcast.TypeEventRecorded, broadcast.NewEventRecordedPayload(event))
	}
	respondJSON(w, http.StatusOK, recordEventResponse{Event: event, Applied: applied})
}

// ListEvents handles GET /games/{id}/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	events, err := h.events.ListEvents(r.Context(), gameID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// RecordSubstitution handles POST /games/{id}/substitutions.
func (h *Handler) RecordSubstitution(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	var req substitutionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Period < 1 {
		respondError(w, http.StatusUnprocessableEntity, "invalid period", nil)
		return
	}

	result, err := h.subs.Substitute(r.Context(), gameID, req.PlayerOutID, req.PlayerInID, req.Period)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.publisher.Publish(gameID, broadcast.TypeSubstitutionMade, broadcast.SubstitutionPayload{
		GameID:       gameID.String(),
		PlayerOutID:  req.PlayerOutID.String(),
		PlayerInID:   req.PlayerInID.String(),
		Period:       result.SubOut.Period,
		ClockSeconds: result.SubOut.ClockSeconds,
	})
	respondJSON(w, http.StatusOK, result)
}

// SetStarters handles POST /games/{id}/starters.
func (h *Handler) SetStarters(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	var req setStartersRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	statuses, err := h.roster.SetStarters(r.Context(), gameID, req.HomePlayerIDs, req.AwayPlayerIDs)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.publisher.Publish(gameID, broadcast.TypeStartersSet, map[string]any{
		"game_id": gameID.String(),
	})
	respondJSON(w, http.StatusCreated, map[string]any{
		"statuses": statuses,
	})
}
