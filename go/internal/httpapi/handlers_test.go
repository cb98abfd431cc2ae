package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mcdev12/courtside/go/internal/clock"
	"github.com/mcdev12/courtside/go/internal/gameevents"
	"github.com/mcdev12/courtside/go/internal/roster"
	"github.com/mcdev12/courtside/go/internal/substitution"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{clock.ErrAlreadyRunning, http.StatusConflict},
		{clock.ErrNotRunning, http.StatusConflict},
		{clock.ErrStillRunning, http.StatusConflict},
		{clock.ErrNotAtZero, http.StatusConflict},
		{clock.ErrOutOfOrder, http.StatusConflict},
		{roster.ErrStartersAlreadySet, http.StatusConflict},
		{substitution.ErrNotOnCourt, http.StatusConflict},
		{substitution.ErrAlreadyOnCourt, http.StatusConflict},
		{clock.ErrInvalidClockValue, http.StatusUnprocessableEntity},
		{roster.ErrWrongStarterCount, http.StatusUnprocessableEntity},
		{roster.ErrPlayerNotInGame, http.StatusUnprocessableEntity},
		{substitution.ErrCrossTeam, http.StatusUnprocessableEntity},
		{substitution.ErrSamePlayer, http.StatusUnprocessableEntity},
		{gameevents.ErrUnknownKind, http.StatusUnprocessableEntity},
		{gameevents.ErrPlayerRequired, http.StatusUnprocessableEntity},
		{gameevents.ErrMissingIdempotencyKey, http.StatusUnprocessableEntity},
		{roster.ErrGameNotFound, http.StatusNotFound},
		{roster.ErrPlayerNotFound, http.StatusNotFound},
		{gameevents.ErrEventNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusForWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("player abc: %w", substitution.ErrNotOnCourt)
	if got := statusFor(wrapped); got != http.StatusConflict {
		t.Errorf("statusFor(wrapped) = %d, want 409", got)
	}
}

func TestRoutesRejectMalformedRequests(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, nil, nil, nil)
	mux := http.NewServeMux()
	h.Routes(mux)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"bad game id on start", "POST", "/games/not-a-uuid/clock/start", "", http.StatusBadRequest},
		{"bad game id on boxscore", "GET", "/games/42/boxscore", "", http.StatusBadRequest},
		{"bad body on pause", "POST", "/games/0b9fdc3e-9f3a-4f45-9a6a-55e9a7a236d1/clock/pause", "{", http.StatusBadRequest},
		{"unknown field on event", "POST", "/games/0b9fdc3e-9f3a-4f45-9a6a-55e9a7a236d1/events", `{"bogus": 1}`, http.StatusBadRequest},
		{"zero period on substitution", "POST", "/games/0b9fdc3e-9f3a-4f45-9a6a-55e9a7a236d1/substitutions",
			`{"player_out_id":"0b9fdc3e-9f3a-4f45-9a6a-55e9a7a236d1","player_in_id":"1b9fdc3e-9f3a-4f45-9a6a-55e9a7a236d1","period":0}`,
			http.StatusUnprocessableEntity},
		{"wrong method", "DELETE", "/games/0b9fdc3e-9f3a-4f45-9a6a-55e9a7a236d1/events", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			}
		})
	}
}
