package httpapi

import "net/http"

// Routes registers every handler on the mux using method-qualified
// patterns.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("POST /games/{id}/clock/start", h.StartClock)
	mux.HandleFunc("POST /games/{id}/clock/pause", h.PauseClock)
	mux.HandleFunc("POST /games/{id}/clock/reset", h.ResetClock)
	mux.HandleFunc("POST /games/{id}/clock/advance-period", h.AdvancePeriod)

	mux.HandleFunc("POST /games/{id}/events", h.RecordEvent)
	mux.HandleFunc("GET /games/{id}/events", h.ListEvents)
	mux.HandleFunc("POST /games/{id}/substitutions", h.RecordSubstitution)
	mux.HandleFunc("POST /games/{id}/starters", h.SetStarters)

	mux.HandleFunc("GET /games/{id}/boxscore", h.GetLiveBoxScore)
	mux.HandleFunc("GET /games/{id}/ws", h.WatchGame)
}
