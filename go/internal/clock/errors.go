package clock

import "errors"

var (
	// ErrAlreadyRunning indicates a RUNNING session was appended while the
	// latest session is already RUNNING.
	ErrAlreadyRunning = errors.New("clock already running")

	// ErrNotRunning indicates a pause was requested while the clock is not
	// running.
	ErrNotRunning = errors.New("clock not running")

	// ErrStillRunning indicates a reset or period advance was requested while
	// the clock is running.
	ErrStillRunning = errors.New("clock still running")

	// ErrNotAtZero indicates a period advance was requested before the clock
	// reached zero.
	ErrNotAtZero = errors.New("clock not at zero")

	// ErrInvalidClockValue indicates seconds remaining outside
	// [0, period length], or above the latest running session's value.
	ErrInvalidClockValue = errors.New("invalid clock value")

	// ErrOutOfOrder indicates the server clock produced a capture timestamp
	// earlier than the latest session's. Sessions are totally ordered per
	// game, so the append is rejected rather than silently reordered.
	ErrOutOfOrder = errors.New("session capture out of order")
)
