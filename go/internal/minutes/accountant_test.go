package minutes

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const statusSchema = `
CREATE TABLE player_game_statuses (
    game_id              TEXT NOT NULL,
    player_id            TEXT NOT NULL,
    is_on_court          BOOLEAN NOT NULL,
    last_sub_in_seconds  INTEGER,
    total_seconds_played INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (game_id, player_id)
);
`

func newStatusDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(statusSchema); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func insertStatus(t *testing.T, db *sql.DB, gameID, playerID uuid.UUID, onCourt bool, lastSubIn *int, total int) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO player_game_statuses (game_id, player_id, is_on_court, last_sub_in_seconds, total_seconds_played)
		VALUES ($1, $2, $3, $4, $5)`,
		gameID, playerID, onCourt, lastSubIn, total)
	if err != nil {
		t.Fatalf("failed to insert status: %v", err)
	}
}

func readStatus(t *testing.T, db *sql.DB, gameID, playerID uuid.UUID) (lastSubIn, total int) {
	t.Helper()
	err := db.QueryRow(`
		SELECT last_sub_in_seconds, total_seconds_played
		FROM player_game_statuses
		WHERE game_id = $1 AND player_id = $2`,
		gameID, playerID).Scan(&lastSubIn, &total)
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	return lastSubIn, total
}

func intPtr(v int) *int { return &v }

func TestSettleCreditsElapsedSegment(t *testing.T) {
	db := newStatusDB(t)
	gameID := uuid.New()
	playerID := uuid.New()
	insertStatus(t, db, gameID, playerID, true, intPtr(320), 100)

	if err := NewAccountant().Settle(context.Background(), db, gameID, 300); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	lastSubIn, total := readStatus(t, db, gameID, playerID)
	if total != 120 {
		t.Errorf("total_seconds_played = %d, want 120", total)
	}
	if lastSubIn != 300 {
		t.Errorf("last_sub_in_seconds = %d, want 300", lastSubIn)
	}
}

func TestSettleSkipsDriftAnomaly(t *testing.T) {
	db := newStatusDB(t)
	gameID := uuid.New()
	normalID := uuid.New()
	driftedID := uuid.New()
	// The drifted player's entry point is below the settle countdown,
	// which a countdown clock cannot produce; the row must be untouched.
	insertStatus(t, db, gameID, normalID, true, intPtr(400), 0)
	insertStatus(t, db, gameID, driftedID, true, intPtr(250), 60)

	if err := NewAccountant().Settle(context.Background(), db, gameID, 300); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	if lastSubIn, total := readStatus(t, db, gameID, normalID); total != 100 || lastSubIn != 300 {
		t.Errorf("normal player = (%d, %d), want (300, 100)", lastSubIn, total)
	}
	if lastSubIn, total := readStatus(t, db, gameID, driftedID); total != 60 || lastSubIn != 250 {
		t.Errorf("drifted player = (%d, %d), want (250, 60): row must not change", lastSubIn, total)
	}
}

func TestSettleIgnoresBenchAndOtherGames(t *testing.T) {
	db := newStatusDB(t)
	gameID := uuid.New()
	benchedID := uuid.New()
	otherGameID := uuid.New()
	visitorID := uuid.New()
	insertStatus(t, db, gameID, benchedID, false, nil, 240)
	insertStatus(t, db, otherGameID, visitorID, true, intPtr(500), 0)

	if err := NewAccountant().Settle(context.Background(), db, gameID, 300); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	if lastSubIn, total := readStatus(t, db, otherGameID, visitorID); total != 0 || lastSubIn != 500 {
		t.Errorf("other game's player = (%d, %d), want (500, 0)", lastSubIn, total)
	}
	var total int
	err := db.QueryRow(`
		SELECT total_seconds_played FROM player_game_statuses
		WHERE game_id = $1 AND player_id = $2`, gameID, benchedID).Scan(&total)
	if err != nil {
		t.Fatalf("failed to read benched player: %v", err)
	}
	if total != 240 {
		t.Errorf("benched player total = %d, want 240", total)
	}
}

// Repeated settles at decreasing countdowns accumulate exactly the elapsed
// time, and a settle at the same countdown is a zero-credit no-op.
func TestSettleRepeatedIsMonotone(t *testing.T) {
	db := newStatusDB(t)
	gameID := uuid.New()
	playerID := uuid.New()
	insertStatus(t, db, gameID, playerID, true, intPtr(600), 0)

	accountant := NewAccountant()
	prev := 0
	for _, at := range []int{500, 400, 400, 250} {
		if err := accountant.Settle(context.Background(), db, gameID, at); err != nil {
			t.Fatalf("Settle(%d) error = %v", at, err)
		}
		_, total := readStatus(t, db, gameID, playerID)
		if total < prev {
			t.Fatalf("total decreased after Settle(%d): %d -> %d", at, prev, total)
		}
		prev = total
	}
	if prev != 350 {
		t.Errorf("total after settles = %d, want 350", prev)
	}
}
