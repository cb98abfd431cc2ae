package httpapi

import (
	"errors"
	"net/http"

	"github.com/mcdev12/courtside/go/internal/clock"
	"github.com/mcdev12/courtside/go/internal/gameevents"
	"github.com/mcdev12/courtside/go/internal/roster"
	"github.com/mcdev12/courtside/go/internal/substitution"
)

// statusFor maps domain errors onto HTTP status codes. State-machine
// precondition failures are conflicts; malformed inputs are unprocessable;
// anything unmapped is a server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrGameNotFound),
		errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, roster.ErrStatusNotFound),
		errors.Is(err, gameevents.ErrEventNotFound):
		return http.StatusNotFound

	case errors.Is(err, clock.ErrAlreadyRunning),
		errors.Is(err, clock.ErrNotRunning),
		errors.Is(err, clock.ErrStillRunning),
		errors.Is(err, clock.ErrNotAtZero),
		errors.Is(err, clock.ErrOutOfOrder),
		errors.Is(err, roster.ErrStartersAlreadySet),
		errors.Is(err, substitution.ErrNotOnCourt),
		errors.Is(err, substitution.ErrAlreadyOnCourt):
		return http.StatusConflict

	case errors.Is(err, clock.ErrInvalidClockValue),
		errors.Is(err, roster.ErrWrongStarterCount),
		errors.Is(err, roster.ErrPlayerNotInGame),
		errors.Is(err, roster.ErrWrongSide),
		errors.Is(err, substitution.ErrCrossTeam),
		errors.Is(err, substitution.ErrSamePlayer),
		errors.Is(err, gameevents.ErrUnknownKind),
		errors.Is(err, gameevents.ErrPlayerRequired),
		errors.Is(err, gameevents.ErrMissingIdempotencyKey):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError renders a domain error with its mapped status. The
// error text itself is the message so clients see which rule fired.
func respondDomainError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	respondError(w, status, err.Error(), err)
}
