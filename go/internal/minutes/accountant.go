package minutes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/courtside/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
)

// Accountant credits playing time to on-court players at settle points
// (pause, substitution, period end). It must run inside the same transaction
// as the ledger write that defines the settle point.
type Accountant struct{}

// NewAccountant creates a new minutes accountant.
func NewAccountant() *Accountant {
	return &Accountant{}
}

// Settle credits every on-court player with the segment elapsed since their
// entry point: delta = last_sub_in_seconds - currentSeconds. Players whose
// delta would be negative are drift anomalies (the countdown only ever
// decreases); their rows are left untouched and the anomaly is logged, never
// surfaced as an error. The credit itself is one atomic multi-row update.
func (a *Accountant) Settle(ctx context.Context, db sqlutil.DBTX, gameID uuid.UUID, currentSeconds int) error {
	rows, err := db.QueryContext(ctx, `
		SELECT player_id, last_sub_in_seconds
		FROM player_game_statuses
		WHERE game_id = $1 AND is_on_court AND last_sub_in_seconds < $2`,
		gameID, currentSeconds)
	if err != nil {
		return fmt.Errorf("failed to find drift anomalies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var playerID uuid.UUID
		var lastSubIn int
		if err := rows.Scan(&playerID, &lastSubIn); err != nil {
			return fmt.Errorf("failed to scan drift anomaly: %w", err)
		}
		log.Warn().
			Str("game_id", gameID.String()).
			Str("player_id", playerID.String()).
			Int("last_sub_in_seconds", lastSubIn).
			Int("current_seconds", currentSeconds).
			Msg("negative settle segment, skipping player")
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read drift anomalies: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		UPDATE player_game_statuses
		SET total_seconds_played = total_seconds_played + (last_sub_in_seconds - $2),
		    last_sub_in_seconds = $2
		WHERE game_id = $1 AND is_on_court AND last_sub_in_seconds >= $2`,
		gameID, currentSeconds)
	if err != nil {
		return fmt.Errorf("failed to settle minutes: %w", err)
	}
	return nil
}
