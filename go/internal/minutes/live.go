package minutes

import (
	"time"

	"github.com/mcdev12/courtside/go/internal/models"
)

// CurrentClock derives the live countdown value from the latest clock
// session. While RUNNING it extrapolates from the wall-clock time elapsed
// since the session was captured; while PAUSED the stored value is exact.
func CurrentClock(latest *models.ClockSession, now time.Time) int {
	if latest == nil {
		return 0
	}
	if latest.Status != models.ClockStatusRunning {
		return latest.SecondsRemaining
	}
	elapsed := int(now.Sub(latest.CapturedAt) / time.Second)
	clock := latest.SecondsRemaining - elapsed
	if clock < 0 {
		return 0
	}
	return clock
}

// LiveTotal returns a player's playing time including the currently elapsing
// segment. Pure and lock-free: safe to call once per second per viewer.
//
// Off-court players, a paused clock, or a missing session all return the
// settled total unchanged. A negative active segment is a drift anomaly;
// the settled total is returned and the anomaly flagged, so the result is
// never below what has been durably credited.
func LiveTotal(latest *models.ClockSession, status models.PlayerGameStatus, now time.Time) (total int, anomaly bool) {
	total = status.TotalSecondsPlayed
	if !status.IsOnCourt || status.LastSubInSeconds == nil {
		return total, false
	}
	if latest == nil || latest.Status != models.ClockStatusRunning {
		return total, false
	}

	activeSegment := *status.LastSubInSeconds - CurrentClock(latest, now)
	if activeSegment < 0 {
		return total, true
	}
	return total + activeSegment, false
}
