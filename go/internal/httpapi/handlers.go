package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/courtside/go/internal/boxscore"
	"github.com/mcdev12/courtside/go/internal/broadcast"
	"github.com/mcdev12/courtside/go/internal/clock"
	"github.com/mcdev12/courtside/go/internal/gameevents"
	"github.com/mcdev12/courtside/go/internal/gateway"
	"github.com/mcdev12/courtside/go/internal/roster"
	"github.com/mcdev12/courtside/go/internal/substitution"
)

// Publisher defines what the handlers need from the broadcast layer.
// Publishing happens after commit and must never fail a request.
type Publisher interface {
	Publish(gameID uuid.UUID, eventType broadcast.EventType, payload any)
}

// Pinger defines the handlers' health-check view of the database.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	clock     *clock.App
	roster    *roster.App
	events    *gameevents.App
	subs      *substitution.Coordinator
	boxscores *boxscore.App
	publisher Publisher
	gateway   *gateway.ConnectionManager
	db        Pinger
}

// NewHandler creates a new handler with dependencies.
func NewHandler(
	clockApp *clock.App,
	rosterApp *roster.App,
	eventsApp *gameevents.App,
	subs *substitution.Coordinator,
	boxscores *boxscore.App,
	publisher Publisher,
	gw *gateway.ConnectionManager,
	db Pinger,
) *Handler {
	return &Handler{
		clock:     clockApp,
		roster:    rosterApp,
		events:    eventsApp,
		subs:      subs,
		boxscores: boxscores,
		publisher: publisher,
		gateway:   gw,
		db:        db,
	}
}

// HealthCheck reports service and database health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "courtside",
	})
}

// gameIDFromPath extracts and validates the {id} path value.
func gameIDFromPath(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("error encoding response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg(message)
	}

	respondJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
