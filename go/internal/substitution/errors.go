package substitution

import "errors"

var (
	// ErrNotOnCourt indicates the outgoing player is not on the court.
	ErrNotOnCourt = errors.New("outgoing player not on court")

	// ErrAlreadyOnCourt indicates the incoming player is already on the court.
	ErrAlreadyOnCourt = errors.New("incoming player already on court")

	// ErrCrossTeam indicates the two players belong to different teams.
	ErrCrossTeam = errors.New("players belong to different teams")

	// ErrSamePlayer indicates the same player on both sides of the swap.
	ErrSamePlayer = errors.New("cannot substitute a player for themselves")
)
