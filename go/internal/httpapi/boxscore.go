package httpapi

import (
	"net/http"
)

// GetLiveBoxScore handles GET /games/{id}/boxscore.
func (h *Handler) GetLiveBoxScore(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	box, err := h.boxscores.GetLive(r.Context(), gameID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, box)
}

// WatchGame handles GET /games/{id}/ws, upgrading the viewer to a
// WebSocket fed by the broadcast consumer.
func (h *Handler) WatchGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := gameIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id", err)
		return
	}

	// UpgradeConnection writes its own error response on failure.
	_ = h.gateway.UpgradeConnection(w, r, gameID)
}
