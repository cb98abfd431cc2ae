package httpapi

import (
	"net/http"

	"github.com/mcdev12/courtside/go/internal/broadcast"
)

type pauseClockRequest struct {
	SecondsRemaining int `json:"seconds_remaining"`
}

// StartClock handles POST /games/{id}/clock/start.
func (h *Handler) StartClock(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	session, err := h.clock.Start(r.Context(), gameID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.publisher.Publish(gameID, broadcast.TypeClockStarted, broadcast.NewClockPayload(session))
	respondJSON(w, http.StatusOK, session)
}

// PauseClock handles POST /games/{id}/clock/pause. The body carries the
// device's observed clock reading at the moment of the pause.
func (h *Handler) PauseClock(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	var req pauseClockRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.clock.Pause(r.Context(), gameID, req.SecondsRemaining)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.publisher.Publish(gameID, broadcast.TypeClockPaused, broadcast.NewClockPayload(session))
	respondJSON(w, http.StatusOK, session)
}

// ResetClock handles POST /games/{id}/clock/reset.
func (h *Handler) ResetClock(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	session, err := h.clock.Reset(r.Context(), gameID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.publisher.Publish(gameID, broadcast.TypeClockReset, broadcast.NewClockPayload(session))
	respondJSON(w, http.StatusOK, session)
}

// AdvancePeriod handles POST /games/{id}/clock/advance-period.
func (h *Handler) AdvancePeriod(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	session, err := h.clock.AdvancePeriod(r.Context(), gameID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.publisher.Publish(gameID, broadcast.TypePeriodAdvanced, broadcast.NewClockPayload(session))
	respondJSON(w, http.StatusOK, session)
}
