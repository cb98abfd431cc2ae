package gameevents

import "errors"

var (
	// ErrUnknownKind indicates an event type outside the closed kind set.
	ErrUnknownKind = errors.New("unknown event kind")

	// ErrPlayerRequired indicates an event kind that must carry a player id
	// arrived without one.
	ErrPlayerRequired = errors.New("event kind requires a player")

	// ErrMissingIdempotencyKey indicates the client did not send a key.
	ErrMissingIdempotencyKey = errors.New("missing idempotency key")

	// ErrEventNotFound indicates no ledger row matched the lookup.
	ErrEventNotFound = errors.New("game event not found")
)
